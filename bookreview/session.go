package bookreview

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// SessionStore persists the session triple (token, user id, email) in a
// small SQLite key-value table, the terminal analog of the browser app's
// local storage. A token stays present until Clear, even if the server has
// invalidated it remotely; there is no expiry tracking. Across processes
// the last writer wins, consistent with SQLite semantics.
type SessionStore struct {
	db *sql.DB
}

const (
	keyToken  = "token"
	keyUserID = "user_id"
	keyEmail  = "email"
)

// OpenSessionStore opens (or creates) the store at dbPath.
func OpenSessionStore(dbPath string) (*SessionStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return &SessionStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error { return s.db.Close() }

// Set stores the full triple in one transaction so no reader ever observes
// a partial session.
func (s *SessionStore) Set(token string, userID int64, email string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entries := map[string]string{
		keyToken:  token,
		keyUserID: strconv.FormatInt(userID, 10),
		keyEmail:  email,
	}
	for key, value := range entries {
		if _, err := tx.Exec(`INSERT INTO session(key,value) VALUES(?,?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Token returns the stored bearer token, if any.
func (s *SessionStore) Token() (string, bool, error) { return s.get(keyToken) }

// Email returns the stored account email, if any.
func (s *SessionStore) Email() (string, bool, error) { return s.get(keyEmail) }

// UserID returns the stored user id, if any.
func (s *SessionStore) UserID() (int64, bool, error) {
	raw, ok, err := s.get(keyUserID)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse stored user id: %w", err)
	}
	return id, true, nil
}

// Session returns the full triple. Unless all three entries are present the
// session counts as absent, so a partial store is never treated as
// authenticated.
func (s *SessionStore) Session() (*Session, bool, error) {
	token, ok, err := s.Token()
	if err != nil || !ok {
		return nil, false, err
	}
	userID, ok, err := s.UserID()
	if err != nil || !ok {
		return nil, false, err
	}
	email, ok, err := s.Email()
	if err != nil || !ok {
		return nil, false, err
	}
	return &Session{Token: token, UserID: userID, Email: email}, true, nil
}

// Clear removes all three entries in one statement.
func (s *SessionStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE key IN (?,?,?)`, keyToken, keyUserID, keyEmail)
	return err
}

func (s *SessionStore) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
