package bookreview

import "context"

// Capability is the authorization level of the current session, consumed
// uniformly by every screen that gates an action.
type Capability int

const (
	Guest Capability = iota
	Member
	Admin
)

func (c Capability) String() string {
	switch c {
	case Admin:
		return "admin"
	case Member:
		return "member"
	default:
		return "guest"
	}
}

// Identity resolves the current user from the server on every call. There
// is deliberately no caching: the role can change remotely between calls.
type Identity struct {
	client *Client
}

func NewIdentity(client *Client) *Identity { return &Identity{client: client} }

// CurrentUser returns the authenticated account. Authentication failures
// satisfy errors.Is(err, ErrUnauthenticated), distinct from other errors,
// so callers redirect to the login screen instead of showing a generic
// failure.
func (i *Identity) CurrentUser(ctx context.Context) (*CurrentUser, error) {
	return i.client.WhoAmI(ctx)
}

// IsAdmin reports whether the session belongs to an admin. It degrades to
// false on any failure so UI gating never crashes a screen.
func (i *Identity) IsAdmin(ctx context.Context) bool {
	me, err := i.client.WhoAmI(ctx)
	return err == nil && me.Role == RoleAdmin
}

// Capability folds the current user into the three-level gating enum.
func (i *Identity) Capability(ctx context.Context) Capability {
	me, err := i.client.WhoAmI(ctx)
	switch {
	case err != nil:
		return Guest
	case me.Role == RoleAdmin:
		return Admin
	default:
		return Member
	}
}
