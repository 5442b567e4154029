package bookreview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func meHandler(t *testing.T, status int, role string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"detail":"Not authenticated"}`)
			return
		}
		fmt.Fprintf(w, `{"id":7,"full_name":"Ada Lovelace","display_name":"ada","email":"ada@example.com","account_status":true,"role":%q}`, role)
	})
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		status int
		role   string
		want   bool
	}{
		{"admin role", http.StatusOK, "admin", true},
		{"plain user", http.StatusOK, "user", false},
		{"not logged in", http.StatusUnauthorized, "", false},
		{"server error", http.StatusInternalServerError, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewIdentity(newTestClient(t, meHandler(t, tt.status, tt.role)))
			if got := id.IsAdmin(context.Background()); got != tt.want {
				t.Fatalf("IsAdmin = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapability(t *testing.T) {
	tests := []struct {
		name   string
		status int
		role   string
		want   Capability
	}{
		{"guest when unauthenticated", http.StatusUnauthorized, "", Guest},
		{"member for plain user", http.StatusOK, "user", Member},
		{"admin for admin role", http.StatusOK, "admin", Admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewIdentity(newTestClient(t, meHandler(t, tt.status, tt.role)))
			if got := id.Capability(context.Background()); got != tt.want {
				t.Fatalf("Capability = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	id := NewIdentity(newTestClient(t, meHandler(t, http.StatusOK, "admin")))
	me, err := id.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if me.ID != 7 || me.Email != "ada@example.com" || me.Role != "admin" {
		t.Fatalf("me = %+v", me)
	}
	// account_status is a boolean on the wire, not a string.
	if !me.AccountStatus {
		t.Fatalf("account status did not decode as active")
	}
}

func TestCurrentUserUnauthenticatedIsDistinct(t *testing.T) {
	id := NewIdentity(newTestClient(t, meHandler(t, http.StatusUnauthorized, "")))
	_, err := id.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}

	id = NewIdentity(newTestClient(t, meHandler(t, http.StatusInternalServerError, "")))
	_, err = id.CurrentUser(context.Background())
	if err == nil || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("server error must not look like a missing login, got %v", err)
	}
}
