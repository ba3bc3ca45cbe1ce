package httpx

import (
	"context"
	"slices"
)

// Identity is the principal resolved for a request, either from a bearer
// token on the API surface or from a server session on the web surface.
type Identity struct {
	Subject string
	Roles   []string

	// Source records how the identity was established ("token" or "session").
	Source string
}

// HasRole reports whether role is among the identity's roles.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Roles, role)
}

// HasAnyRole reports whether at least one of roles is held.
func (id *Identity) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, id.HasRole)
}

type identityKey struct{}

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by an authn middleware,
// or nil for unauthenticated requests.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
