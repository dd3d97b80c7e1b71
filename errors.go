package gymauth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeNoAccessToken   = "NO_ACCESS_TOKEN"
	textCodeTokenExpired    = "TOKEN_EXPIRED"
	textCodeTokenMalformed  = "TOKEN_MALFORMED"
	textCodeNoRefreshToken  = "NO_REFRESH_TOKEN"
	textCodeRefreshRejected = "REFRESH_REJECTED"
	textCodeForbidden       = "FORBIDDEN"
	textCodeNoSessionUser   = "NO_SESSION_USER"
)

// ErrNoAccessToken is returned when the store holds no access token.
var ErrNoAccessToken = goerrors.New("no access token in store", goerrors.CategoryAuth).
	WithTextCode(textCodeNoAccessToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when the stored access token's expiry claim is in the past.
var ErrTokenExpired = goerrors.New("access token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token payload cannot be decoded.
// The inspector itself never surfaces this, it reports malformed as expired.
var ErrTokenMalformed = goerrors.New("access token is malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoRefreshToken is returned when a refresh is attempted with no stored
// refresh token. No network call is made in that case.
var ErrNoRefreshToken = goerrors.New("no refresh token in store", goerrors.CategoryAuth).
	WithTextCode(textCodeNoRefreshToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrRefreshRejected is returned when the refresh endpoint fails; the stored
// pair has been cleared by the time a caller sees it.
var ErrRefreshRejected = goerrors.New("token refresh rejected", goerrors.CategoryAuth).
	WithTextCode(textCodeRefreshRejected).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned on a 403 response: authenticated but not allowed.
// A 403 never triggers a token exchange.
var ErrForbidden = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(textCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrNoSessionUser is returned when a session operation needs a cached user
// and none has been set or rehydrated.
var ErrNoSessionUser = goerrors.New("no user in session", goerrors.CategoryAuth).
	WithTextCode(textCodeNoSessionUser).
	WithCode(goerrors.CodeUnauthorized)

// IsAuthFailure reports whether err is an authentication failure
// (bad credentials, expired or unusable tokens). These route to /login.
func IsAuthFailure(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuth
}

// IsAuthzFailure reports whether err is an authorization failure
// (valid session, insufficient role). These route to /unauthorized.
func IsAuthzFailure(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryAuthz
}

// IsValidationFailure reports whether err was raised client-side before any
// network call (bad email format, short password, mismatched confirmation).
func IsValidationFailure(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == goerrors.CategoryValidation
}
