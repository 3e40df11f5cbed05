package auth

import (
	"context"
	"slices"
)

// Identity is the authenticated caller of one request.
type Identity struct {
	Email string
	Roles []string
}

func (id Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.Email != ""
}
