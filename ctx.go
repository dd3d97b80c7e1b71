package gymauth

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/fitstack/go-gymauth/middleware/sessionware"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithClaimsContext sets the AccessClaims in the given context
func WithClaimsContext(r context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AccessClaims from the standard context
func GetClaims(ctx context.Context) (*AccessClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*AccessClaims)
	return raw, ok
}

// GetRouterUser extracts the session user the guard stored in the router
// context under key. An empty key falls back to the guard's default.
func GetRouterUser(ctx router.Context, key string) (sessionware.SessionUser, bool) {
	if key == "" {
		key = "user" // Default key used by the guard middleware
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(sessionware.SessionUser)
	return user, ok
}

// HasRole checks whether the guarded user on the router context holds role
func HasRole(ctx router.Context, role UserRole) bool {
	user, ok := GetRouterUser(ctx, "")
	if !ok {
		return false
	}
	return user.Role() == role
}
