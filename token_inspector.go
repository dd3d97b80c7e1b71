package gymauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenInspector decodes token payloads without verifying signatures. The
// backend is the only signature authority; the client only needs the expiry
// claim to decide whether a stored token is still usable.
//
// The inspector never returns an error from IsExpired: anything that cannot
// be decoded is reported as expired, so a corrupt store fails toward the
// login page rather than toward an open session.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
	logger Logger
}

// TokenInspectorOption customizes inspector construction.
type TokenInspectorOption func(*TokenInspector)

// WithInspectorClock injects a custom clock (useful for tests).
func WithInspectorClock(clock func() time.Time) TokenInspectorOption {
	return func(ti *TokenInspector) {
		if clock != nil {
			ti.now = clock
		}
	}
}

// WithInspectorLogger sets the inspector logger.
func WithInspectorLogger(logger Logger) TokenInspectorOption {
	return func(ti *TokenInspector) {
		if logger != nil {
			ti.logger = logger
		}
	}
}

// NewTokenInspector returns a new TokenInspector
func NewTokenInspector(opts ...TokenInspectorOption) *TokenInspector {
	ti := &TokenInspector{
		parser: jwt.NewParser(),
		now:    time.Now,
		logger: defLogger{},
	}
	for _, opt := range opts {
		opt(ti)
	}
	return ti
}

// Decode parses the token payload without signature verification and returns
// its claims. Decoding failures are categorized as auth errors.
func (ti *TokenInspector) Decode(token string) (*AccessClaims, error) {
	if token == "" {
		return nil, ErrTokenMalformed
	}

	claims := &AccessClaims{}
	if _, _, err := ti.parser.ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	return claims, nil
}

// IsExpired reports whether the token's exp claim is in the past. Malformed
// or undecodable tokens are expired, and so are tokens without an expiry
// claim: the check fails safe, never open.
func (ti *TokenInspector) IsExpired(token string) bool {
	claims, err := ti.Decode(token)
	if err != nil {
		ti.logger.Debug("token inspector treating undecodable token as expired", "error", err)
		return true
	}

	exp := claims.Expires()
	if exp.IsZero() {
		return true
	}

	return !exp.After(ti.now())
}
