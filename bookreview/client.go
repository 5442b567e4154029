package bookreview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer token attached to authorized requests.
// The flag reports whether a token is held at all; without one the request
// goes out bare and the server rejects it.
type TokenSource interface {
	Token() (string, bool, error)
}

// tokenHeader carries the raw token, no "Bearer " prefix.
const tokenHeader = "x-access-token"

// UploadReasonBooks is the upload_reason for book cover images.
const UploadReasonBooks = "books"

// Client translates domain operations into authorized HTTP calls against
// the review service. It holds no server state: every response is decoded,
// returned to the caller, and forgotten. All methods take a context so a
// screen can abandon in-flight calls on teardown.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// NewClient builds a client for the service at baseURL. The token source is
// consulted on every authorized call, never cached.
func NewClient(baseURL string, tokens TokenSource, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		tokens:  tokens,
		log:     logger,
	}
}

// ------------------ Users ------------------

// Login exchanges credentials for a session triple. No token is attached;
// this is one of the two unauthenticated operations.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		AccessToken string `json:"access_token"`
		UserID      int64  `json:"user_id"`
		Email       string `json:"email"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &resp, false); err != nil {
		return nil, err
	}
	return &Session{Token: resp.AccessToken, UserID: resp.UserID, Email: resp.Email}, nil
}

// CreateUser signs up a new account. A duplicate email fails server-side.
func (c *Client) CreateUser(ctx context.Context, fullName, displayName, email, password string) (*User, error) {
	body := map[string]string{
		"full_name":    fullName,
		"display_name": displayName,
		"email":        email,
		"password":     password,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/users/", body, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// WhoAmI fetches the current account including its role. Callers making an
// authorization decision call it fresh every time; the role can change
// server-side between calls.
func (c *Client) WhoAmI(ctx context.Context) (*CurrentUser, error) {
	var me CurrentUser
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &me, true); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetUser fetches one account by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate carries the writable account fields. An empty password leaves
// the current one in place.
type UserUpdate struct {
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
}

// UpdateUser edits an account. The server restricts the change to the
// authenticated user.
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), update, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadFile sends the contents as the multipart form field "file" and
// returns the URL under which the service stored it. Admin only.
func (c *Client) UploadFile(ctx context.Context, filename string, contents io.Reader, reason string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return "", fmt.Errorf("read upload contents: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("finish form: %w", err)
	}

	path := "/users/upload_file?upload_reason=" + url.QueryEscape(reason)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if err := c.attachToken(req); err != nil {
		return "", err
	}

	var resp struct {
		FileURL string `json:"file_url"`
	}
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	return resp.FileURL, nil
}

// SetUserRole grants a role to an account. Admin only.
func (c *Client) SetUserRole(ctx context.Context, userID int64, role string) error {
	path := fmt.Sprintf("/users/%d/role/%s", userID, url.PathEscape(role))
	return c.do(ctx, http.MethodPost, path, nil, nil, true)
}

// ActivateUser re-enables a deactivated account. Admin only.
func (c *Client) ActivateUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/activate", id), nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeactivateUser disables an account; its reviews then display as
// "Unknown user". Admin only.
func (c *Client) DeactivateUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/deactivate", id), nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, true)
}

// ------------------ Books ------------------

// ListBooks returns all books.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books, true); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one book by id.
func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, &book, true); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a book. Admin only; the draft's BookURL must already
// point at an uploaded cover image.
func (c *Client) CreateBook(ctx context.Context, draft BookDraft) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/books", draft, &book, true); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a book's details. Admin only.
func (c *Client) UpdateBook(ctx context.Context, id int64, draft BookDraft) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), draft, &book, true); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book. Admin only.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil, true)
}

// ------------------ Reviews ------------------

// ListBookReviews returns all reviews of one book, newest ordering as the
// server sends it.
func (c *Client) ListBookReviews(ctx context.Context, bookID int64) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/book/%d", bookID), nil, &reviews, true); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListUserReviews returns the reviews one user wrote, joined with book
// titles.
func (c *Client) ListUserReviews(ctx context.Context, userID int64) ([]UserReview, error) {
	var reviews []UserReview
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/user/%d", userID), nil, &reviews, true); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview adds a review. A second review of the same book by the same
// user fails with ErrAlreadyReviewed, not a generic failure.
func (c *Client) CreateReview(ctx context.Context, bookID int64, rating int, text string) (*Review, error) {
	body := struct {
		BookID     int64  `json:"book_id"`
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	}{BookID: bookID, Rating: rating, ReviewText: text}

	var review Review
	if err := c.do(ctx, http.MethodPost, "/reviews", body, &review, true); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits a review. Owner only.
func (c *Client) UpdateReview(ctx context.Context, id int64, rating int, text string) (*Review, error) {
	body := struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	}{Rating: rating, ReviewText: text}

	var review Review
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d", id), body, &review, true); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review. Owner or admin.
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, nil, true)
}

// ------------------ Service ------------------

// Health fetches the service root's welcome payload with its resource
// usage figures.
func (c *Client) Health(ctx context.Context) (*ServiceStatus, error) {
	var status ServiceStatus
	if err := c.do(ctx, http.MethodGet, "/", nil, &status, false); err != nil {
		return nil, err
	}
	return &status, nil
}

// ------------------ Transport ------------------

// do issues one JSON request. Responses outside 2xx come back as *APIError
// carrying the server's detail message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any, withToken bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		if err := c.attachToken(req); err != nil {
			return err
		}
	}
	return c.send(req, out)
}

func (c *Client) attachToken(req *http.Request) error {
	token, ok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if ok {
		req.Header.Set(tokenHeader, token)
	}
	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads the FastAPI-style {"detail": "..."} body. Validation
// errors carry a structured detail instead of a string; those simply leave
// Detail empty.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
