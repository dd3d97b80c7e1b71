// Package sessionware is the route-guard middleware: it gates a handler on
// "has a live session" and "user's role is in the required set", re-checked
// on every mount so revoked or expired sessions are caught on the next
// navigation. Outcomes map to two handlers so embedders can route
// authentication failures to the login page and authorization failures to an
// unauthorized page.
package sessionware

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-router"
)

// ErrNoValidSession signals the redirect-to-login outcome: no usable token
// or no user in the session.
var ErrNoValidSession = errors.New("no valid session")

// SessionUser is the user surface the guard needs. It mirrors the root
// package's user without importing it, avoiding an import cycle.
type SessionUser interface {
	ID() string
	Email() string
	Role() string
}

// Session is the authority the guard consults. Rehydrate must complete
// before any decision: after a restart a valid token may exist with no
// cached user, and deciding early would misread a live session as
// anonymous.
type Session interface {
	Rehydrate(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	User() (SessionUser, bool)
}

type Config struct {
	// Filter skips the guard entirely when it returns true
	Filter func(router.Context) bool
	// SuccessHandler runs when the navigation is allowed
	SuccessHandler router.HandlerFunc
	// LoginHandler receives the redirect-login outcome (no token, no user)
	LoginHandler router.ErrorHandler
	// ForbiddenHandler receives the redirect-unauthorized outcome
	// (authenticated, role not in the required set)
	ForbiddenHandler router.ErrorHandler
	// Session is required
	Session Session
	// RequiredRoles is the role set admitted to the route; empty admits any
	// authenticated role
	RequiredRoles []string
	// ContextKey is where the session user lands in request locals
	ContextKey string
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			if err := cfg.Session.Rehydrate(ctx.Context()); err != nil {
				return cfg.LoginHandler(ctx, err)
			}

			if !cfg.Session.IsAuthenticated(ctx.Context()) {
				return cfg.LoginHandler(ctx, ErrNoValidSession)
			}

			user, ok := cfg.Session.User()
			if !ok {
				return cfg.LoginHandler(ctx, ErrNoValidSession)
			}

			if err := checkRequiredRoles(user, cfg.RequiredRoles); err != nil {
				return cfg.ForbiddenHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, user)

			return cfg.SuccessHandler(ctx)
		}
	}
}

// checkRequiredRoles admits the user when the set is empty or contains the
// user's role.
func checkRequiredRoles(user SessionUser, required []string) error {
	if len(required) == 0 {
		return nil
	}

	role := user.Role()
	for _, r := range required {
		if r == role {
			return nil
		}
	}

	return fmt.Errorf("access denied: role %q not in required set %v", role, required)
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Session == nil {
		panic("SESSION: guard middleware configuration: Session is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.LoginHandler == nil {
		cfg.LoginHandler = func(c router.Context, err error) error {
			return c.Status(router.StatusUnauthorized).SendString("Authentication required")
		}
	}

	if cfg.ForbiddenHandler == nil {
		cfg.ForbiddenHandler = func(c router.Context, err error) error {
			return c.Status(router.StatusForbidden).SendString("Insufficient permissions")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	return cfg
}
