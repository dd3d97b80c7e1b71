package gymauth

import (
	"github.com/goliatone/go-router"

	"github.com/fitstack/go-gymauth/middleware/sessionware"
)

// PublicPathFilter builds a guard filter that skips the listed paths, for
// mounting the guard on a route group that contains a few public pages.
func PublicPathFilter(paths ...string) func(router.Context) bool {
	public := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		public[p] = struct{}{}
	}

	return func(ctx router.Context) bool {
		_, ok := public[ctx.Path()]
		return ok
	}
}

// UserContextSuccessHandler returns a guard success handler that copies the
// admitted user into the request's standard context before continuing, so
// downstream code can use FromContext instead of router locals.
func UserContextSuccessHandler(contextKey string) router.HandlerFunc {
	if contextKey == "" {
		contextKey = "user"
	}

	return func(ctx router.Context) error {
		if identity, ok := GetRouterUser(ctx, contextKey); ok {
			user := &User{
				ID:    identity.ID(),
				Email: identity.Email(),
				Role:  UserRole(identity.Role()),
			}
			ctx.SetContext(WithContext(ctx.Context(), user))
		}

		return ctx.Next()
	}
}

// GuardConfigWithContext is a convenience wrapper: a sessionware config whose
// success handler enriches the standard context with the admitted user.
func GuardConfigWithContext(session sessionware.Session, contextKey string, roles ...UserRole) sessionware.Config {
	return sessionware.Config{
		Session:        session,
		RequiredRoles:  roles,
		ContextKey:     contextKey,
		SuccessHandler: UserContextSuccessHandler(contextKey),
	}
}
