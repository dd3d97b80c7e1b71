package gymauth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore persists the access/refresh token pair. Implementations must
// treat the pair as a unit: SetTokens writes both or neither, Clear removes
// both. Lookups return the empty string, never an error state, when a slot
// holds no value.
type TokenStore interface {
	SetTokens(ctx context.Context, access, refresh string) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Navigator receives the forced navigations the session layer triggers:
// refresh failure sends the user to the login page, a 403 to the
// unauthorized page. Embedders bind this to their UI shell.
type Navigator interface {
	NavigateToLogin(reason error)
	NavigateToUnauthorized(reason error)
}

// Config holds session options
type Config interface {
	GetBaseURL() string
	GetContextKey() string
	GetAuthScheme() string
	GetLoginRoute() string
	GetUnauthorizedRoute() string
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
	GetStorageDSN() string
}

type noopNavigator struct{}

func (noopNavigator) NavigateToLogin(error)        {}
func (noopNavigator) NavigateToUnauthorized(error) {}

func normalizeNavigator(n Navigator) Navigator {
	if n == nil {
		return noopNavigator{}
	}
	return n
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GYMAUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GYMAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GYMAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GYMAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
