package bookreview

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *SessionStore {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenSessionStore(filepath.Join(dir, "session.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionAbsentInitially(t *testing.T) {
	store := tempStore(t)

	if _, ok, err := store.Token(); err != nil || ok {
		t.Fatalf("token: ok=%v err=%v, want absent", ok, err)
	}
	if _, ok, err := store.UserID(); err != nil || ok {
		t.Fatalf("user id: ok=%v err=%v, want absent", ok, err)
	}
	if _, ok, err := store.Email(); err != nil || ok {
		t.Fatalf("email: ok=%v err=%v, want absent", ok, err)
	}
	if _, ok, err := store.Session(); err != nil || ok {
		t.Fatalf("session: ok=%v err=%v, want absent", ok, err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := tempStore(t)

	if err := store.Set("tok-1", 42, "a@b.com"); err != nil {
		t.Fatalf("set: %v", err)
	}

	token, ok, _ := store.Token()
	if !ok || token != "tok-1" {
		t.Fatalf("token = %q ok=%v", token, ok)
	}
	userID, ok, _ := store.UserID()
	if !ok || userID != 42 {
		t.Fatalf("user id = %d ok=%v", userID, ok)
	}
	email, ok, _ := store.Email()
	if !ok || email != "a@b.com" {
		t.Fatalf("email = %q ok=%v", email, ok)
	}

	// Last write wins.
	if err := store.Set("tok-2", 43, "c@d.com"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	sess, ok, err := store.Session()
	if err != nil || !ok {
		t.Fatalf("session after overwrite: ok=%v err=%v", ok, err)
	}
	if sess.Token != "tok-2" || sess.UserID != 43 || sess.Email != "c@d.com" {
		t.Fatalf("session = %+v", sess)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Token(); ok {
		t.Fatalf("token should be absent after clear")
	}
	if _, ok, _ := store.UserID(); ok {
		t.Fatalf("user id should be absent after clear")
	}
	if _, ok, _ := store.Email(); ok {
		t.Fatalf("email should be absent after clear")
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set("tok-keep", 7, "keep@example.com"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	sess, ok, err := reopened.Session()
	if err != nil || !ok {
		t.Fatalf("session after reopen: ok=%v err=%v", ok, err)
	}
	if sess.Token != "tok-keep" || sess.UserID != 7 {
		t.Fatalf("session = %+v", sess)
	}
}

func TestPartialSessionNotAuthenticated(t *testing.T) {
	store := tempStore(t)

	// A token without the identifying fields must not count as a session.
	if _, err := store.db.Exec(`INSERT INTO session(key,value) VALUES(?,?)`, keyToken, "orphan"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if _, ok, _ := store.Token(); !ok {
		t.Fatalf("token row should be readable")
	}
	if _, ok, err := store.Session(); err != nil || ok {
		t.Fatalf("partial session: ok=%v err=%v, want absent", ok, err)
	}
}
