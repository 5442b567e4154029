package bookreview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Manager is a thin façade wiring the session store, API client, and
// identity resolver together, keeping the shell code simple. It is built
// once per process and threaded explicitly to every call site; there is no
// hidden global session state.
type Manager struct {
	store  *SessionStore
	client *Client
	id     *Identity
	log    zerolog.Logger
}

// NewManager opens the session store at cfg.SessionDBPath and builds a
// client against cfg.APIBaseURL.
func NewManager(cfg Config, logger zerolog.Logger) (*Manager, error) {
	store, err := OpenSessionStore(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	client := NewClient(cfg.APIBaseURL, store, logger)
	return &Manager{
		store:  store,
		client: client,
		id:     NewIdentity(client),
		log:    logger,
	}, nil
}

// Close closes the session store.
func (m *Manager) Close() error { return m.store.Close() }

// ------------------ Session ------------------

// Login authenticates and persists the session triple. Nothing is stored
// on failure.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	sess, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := m.store.Set(sess.Token, sess.UserID, sess.Email); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.log.Info().Int64("user_id", sess.UserID).Msg("logged in")
	return nil
}

// Logout drops the stored session. The token itself is not revoked
// server-side.
func (m *Manager) Logout() error { return m.store.Clear() }

// Session returns the persisted triple, if one is held.
func (m *Manager) Session() (*Session, bool, error) { return m.store.Session() }

// SignUp creates a new account. Logging in afterwards is a separate step.
func (m *Manager) SignUp(ctx context.Context, fullName, displayName, email, password string) (*User, error) {
	return m.client.CreateUser(ctx, fullName, displayName, email, password)
}

// ------------------ Identity ------------------

func (m *Manager) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	return m.id.CurrentUser(ctx)
}
func (m *Manager) IsAdmin(ctx context.Context) bool          { return m.id.IsAdmin(ctx) }
func (m *Manager) Capability(ctx context.Context) Capability { return m.id.Capability(ctx) }

// ------------------ Profile ------------------

// Profile fetches the account named by the stored user id.
func (m *Manager) Profile(ctx context.Context) (*User, error) {
	userID, ok, err := m.store.UserID()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthenticated
	}
	return m.client.GetUser(ctx, userID)
}

// UpdateProfile edits the stored account. The server rejects attempts to
// edit anyone else.
func (m *Manager) UpdateProfile(ctx context.Context, update UserUpdate) (*User, error) {
	userID, ok, err := m.store.UserID()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthenticated
	}
	return m.client.UpdateUser(ctx, userID, update)
}

// ------------------ Books ------------------

func (m *Manager) Books(ctx context.Context) ([]Book, error) { return m.client.ListBooks(ctx) }

func (m *Manager) Book(ctx context.Context, id int64) (*Book, error) {
	return m.client.GetBook(ctx, id)
}

// AddBook gates on the admin role before anything touches the upload or
// book endpoints, uploads the cover image, then creates the book with the
// returned URL. A failed upload aborts the creation; the book is never
// created without its image.
func (m *Manager) AddBook(ctx context.Context, draft BookDraft, imagePath string) (*Book, error) {
	if !m.id.IsAdmin(ctx) {
		return nil, ErrForbidden
	}

	f, err := os.Open(filepath.Clean(imagePath))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	fileURL, err := m.client.UploadFile(ctx, filepath.Base(imagePath), f, UploadReasonBooks)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	draft.BookURL = fileURL
	return m.client.CreateBook(ctx, draft)
}

// UpdateBook replaces a book's details, keeping its existing cover URL
// unless the draft carries a new one.
func (m *Manager) UpdateBook(ctx context.Context, id int64, draft BookDraft) (*Book, error) {
	return m.client.UpdateBook(ctx, id, draft)
}

func (m *Manager) RemoveBook(ctx context.Context, id int64) error {
	return m.client.DeleteBook(ctx, id)
}

// ------------------ Reviews ------------------

func (m *Manager) Reviews(ctx context.Context, bookID int64) ([]Review, error) {
	return m.client.ListBookReviews(ctx, bookID)
}

// AddReview posts a review. The one-review-per-user-per-book rule is
// enforced server-side; a violation surfaces as ErrAlreadyReviewed.
func (m *Manager) AddReview(ctx context.Context, bookID int64, rating int, text string) (*Review, error) {
	return m.client.CreateReview(ctx, bookID, rating, text)
}

// HasReviewed reports whether the session user already reviewed the book,
// by scanning the book's review list for the stored user id.
func (m *Manager) HasReviewed(ctx context.Context, bookID int64) (bool, error) {
	userID, ok, err := m.store.UserID()
	if err != nil || !ok {
		return false, err
	}
	reviews, err := m.client.ListBookReviews(ctx, bookID)
	if err != nil {
		return false, err
	}
	for _, r := range reviews {
		if r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// EditReview updates a review's text and rating. Owner only.
func (m *Manager) EditReview(ctx context.Context, id int64, rating int, text string) (*Review, error) {
	return m.client.UpdateReview(ctx, id, rating, text)
}

// RemoveReview deletes a review. Owner or admin.
func (m *Manager) RemoveReview(ctx context.Context, id int64) error {
	return m.client.DeleteReview(ctx, id)
}

// MyReviews lists the reviews written by the session user.
func (m *Manager) MyReviews(ctx context.Context) ([]UserReview, error) {
	userID, ok, err := m.store.UserID()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthenticated
	}
	return m.client.ListUserReviews(ctx, userID)
}

// ------------------ User administration ------------------

// GrantRole assigns a role to another account. Admin only.
func (m *Manager) GrantRole(ctx context.Context, userID int64, role string) error {
	return m.client.SetUserRole(ctx, userID, role)
}

func (m *Manager) ActivateUser(ctx context.Context, id int64) (*User, error) {
	return m.client.ActivateUser(ctx, id)
}

func (m *Manager) DeactivateUser(ctx context.Context, id int64) (*User, error) {
	return m.client.DeactivateUser(ctx, id)
}

func (m *Manager) RemoveUser(ctx context.Context, id int64) error {
	return m.client.DeleteUser(ctx, id)
}

// ------------------ Service ------------------

func (m *Manager) Health(ctx context.Context) (*ServiceStatus, error) {
	return m.client.Health(ctx)
}
