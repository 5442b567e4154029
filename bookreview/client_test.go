package bookreview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type staticToken string

func (s staticToken) Token() (string, bool, error) { return string(s), s != "", nil }

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("tok-1"), zerolog.Nop())
}

func TestLoginParsesSessionTriple(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(tokenHeader) != "" {
			t.Errorf("login must not carry a token")
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode creds: %v", err)
		}
		if creds["email"] != "a@b.com" || creds["password"] != "pw" {
			t.Errorf("creds = %v", creds)
		}
		fmt.Fprint(w, `{"access_token":"tok-abc","token_type":"x-access-token","user_id":7,"email":"a@b.com"}`)
	})

	client := newTestClient(t, handler)
	sess, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-abc" || sess.UserID != 7 || sess.Email != "a@b.com" {
		t.Fatalf("session = %+v", sess)
	}
}

func TestTokenHeaderAttached(t *testing.T) {
	var gotToken string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(tokenHeader)
		fmt.Fprint(w, `[]`)
	})

	client := newTestClient(t, handler)
	if _, err := client.ListBooks(context.Background()); err != nil {
		t.Fatalf("list books: %v", err)
	}
	if gotToken != "tok-1" {
		t.Fatalf("token header = %q, want raw token without prefix", gotToken)
	}
}

func TestNoTokenHeaderWithoutSession(t *testing.T) {
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasHeader = r.Header[http.CanonicalHeaderKey(tokenHeader)]
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Not authenticated"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, staticToken(""), zerolog.Nop())
	_, err := client.ListBooks(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if hasHeader {
		t.Fatalf("empty token must not be sent")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		detail    string
		wantIs    error
		wantNotIs error
	}{
		{"unauthenticated", http.StatusUnauthorized, "Invalid credentials", ErrUnauthenticated, ErrForbidden},
		{"forbidden", http.StatusForbidden, "Not authorized to perform this action", ErrForbidden, ErrAlreadyReviewed},
		{"not found", http.StatusNotFound, "Book not found", ErrNotFound, ErrForbidden},
		{"already reviewed via 403", http.StatusForbidden, "You have already reviewed this book", ErrAlreadyReviewed, ErrNotFound},
		{"already reviewed via 409", http.StatusConflict, "duplicate review", ErrAlreadyReviewed, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
			}))

			_, err := client.GetBook(context.Background(), 1)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, tt.wantIs) {
				t.Fatalf("err = %v, want errors.Is(%v)", err, tt.wantIs)
			}
			if errors.Is(err, tt.wantNotIs) {
				t.Fatalf("err = %v must not match %v", err, tt.wantNotIs)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %T, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Detail != tt.detail {
				t.Fatalf("apiErr = %+v", apiErr)
			}
		})
	}
}

func TestUploadFile(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/upload_file" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("upload_reason"); got != "books" {
			t.Errorf("upload_reason = %q", got)
		}
		if r.Header.Get(tokenHeader) != "tok-1" {
			t.Errorf("missing token on upload")
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "cover.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		contents, _ := io.ReadAll(file)
		if string(contents) != "img-bytes" {
			t.Errorf("contents = %q", contents)
		}

		fmt.Fprint(w, `{"msg":"file uploaded successfully","file_url":"http://files/books/cover.png"}`)
	})

	client := newTestClient(t, handler)
	url, err := client.UploadFile(context.Background(), "cover.png", strings.NewReader("img-bytes"), UploadReasonBooks)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://files/books/cover.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestCreateReviewPayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reviews" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			BookID     int64  `json:"book_id"`
			Rating     int    `json:"rating"`
			ReviewText string `json:"review_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.BookID != 5 || body.Rating != 4 || body.ReviewText != "great read" {
			t.Errorf("body = %+v", body)
		}
		fmt.Fprintf(w, `{"id":11,"book_id":%d,"user_id":7,"rating":%d,"review_text":%q}`,
			body.BookID, body.Rating, body.ReviewText)
	})

	client := newTestClient(t, handler)
	review, err := client.CreateReview(context.Background(), 5, 4, "great read")
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.ID != 11 || review.BookID != 5 {
		t.Fatalf("review = %+v", review)
	}
}
