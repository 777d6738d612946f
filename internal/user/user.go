package user

import "context"

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "user"
)

// Identity is the verified caller of a request.
type Identity struct {
	ID   string
	Role string
}

// IsAdmin reports whether the caller holds the administrative role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanModify reports whether the caller may change something authored by authorID.
func (i Identity) CanModify(authorID string) bool {
	return i.ID == authorID || i.IsAdmin()
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)

	return id, ok && id.ID != ""
}
