package auth

import "context"

// Identity is the authenticated principal extracted from a bearer token.
type Identity struct {
	UserID string
	Email  string
}

// CurrentUserID implements cart.IdentityProvider. A nil identity has no user.
func (i *Identity) CurrentUserID() string {
	if i == nil {
		return ""
	}
	return i.UserID
}

// CurrentUserEmail implements cart.IdentityProvider.
func (i *Identity) CurrentUserEmail() string {
	if i == nil {
		return ""
	}
	return i.Email
}

type contextKey string

const identityContextKey contextKey = "clubshop/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
