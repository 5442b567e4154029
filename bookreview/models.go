package bookreview

// Session is the client-held proof of authentication: the bearer token plus
// the identifying fields the service returns on login. It mirrors the three
// values the browser app kept in local storage.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// User as returned by the user endpoints. The password hash never leaves
// the server.
type User struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	DisplayName   string `json:"display_name"`
	Email         string `json:"email"`
	AccountStatus bool   `json:"account_status"`
}

// CurrentUser is the `/users/me/` response: a User plus the role that gates
// book mutation and review moderation.
type CurrentUser struct {
	User
	Role string `json:"role"`
}

// RoleAdmin is the only role granted book mutation rights.
const RoleAdmin = "admin"

// Book metadata. BookURL points at the cover image produced by a separate
// upload step.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"year_published"`
	Summary       string `json:"summary"`
	BookURL       string `json:"book_url"`
}

// BookDraft carries the writable fields for creating or updating a book.
type BookDraft struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"year_published"`
	Summary       string `json:"summary"`
	BookURL       string `json:"book_url"`
}

// Review of a book. DisplayName is denormalized from the reviewing user;
// the server substitutes "Unknown user" for deactivated accounts.
type Review struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"book_id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Rating      int    `json:"rating"`
	ReviewText  string `json:"review_text"`
}

// UserReview is a review joined with its book title, as returned by the
// per-user review listing.
type UserReview struct {
	BookID     int64  `json:"book_id"`
	BookTitle  string `json:"book_title"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// ServiceStatus is the service root endpoint's welcome payload.
type ServiceStatus struct {
	Message       string `json:"message"`
	ResourceUsage struct {
		CPU    string `json:"cpu"`
		Memory string `json:"memory"`
		Disk   string `json:"disk"`
	} `json:"resource_usage"`
}

// DropReview returns reviews without the entry matching id, preserving
// order. Screens use it to update their local list after a delete instead
// of re-fetching.
func DropReview(reviews []Review, id int64) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
