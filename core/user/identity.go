package user

import (
	"context"

	"github.com/samber/lo"
)

// Identity is the caller attached to a request once authenticated.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SystemIdentity is attached to requests authenticated with an API key.
var SystemIdentity = Identity{ID: "system", Username: "system", Role: RoleSystem}

func (id Identity) IsSystem() bool {
	return id.Role == RoleSystem
}

// HasAnyRole reports whether the identity's role is one of roles.
func (id Identity) HasAnyRole(roles ...Role) bool {
	return lo.Contains(roles, id.Role)
}

type identityCtxKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// FromContext returns the Identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
