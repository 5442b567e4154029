package bookreview

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Failure classes surfaced by the API client. Callers classify with
// errors.Is against these sentinels; the concrete error is usually an
// *APIError carrying the server's detail message.
var (
	// ErrUnauthenticated means the request carried no token or a token the
	// server rejected. Screens fall back to the login prompt on it.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the authenticated account lacks the required role
	// or ownership.
	ErrForbidden = errors.New("not authorized")

	// ErrNotFound means the target resource no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReviewed is the uniqueness rejection for a second review of
	// the same book by the same user.
	ErrAlreadyReviewed = errors.New("already reviewed")
)

// APIError is a non-2xx response from the review service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// Is maps status codes onto the sentinel errors above. The service signals
// a duplicate review with a 403 whose detail names it, so that case matches
// on the detail text as well as on a plain 409.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case ErrAlreadyReviewed:
		return e.StatusCode == http.StatusConflict ||
			(e.StatusCode == http.StatusForbidden &&
				strings.Contains(strings.ToLower(e.Detail), "already reviewed"))
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
