package gymauth

import "github.com/fitstack/go-gymauth/middleware/sessionware"

// UserIdentity adapts a User into the guard's session-user surface.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns a session-user adapter for the provided user.
func NewIdentityFromUser(user *User) sessionware.SessionUser {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// Role returns the user's effective role as a string.
func (u UserIdentity) Role() string {
	if u.user == nil {
		return ""
	}
	return string(u.user.Role)
}
