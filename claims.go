package gymauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the decoded payload of an access token. It is read without
// signature verification (the backend verifies signatures); nothing here may
// be trusted for authorization beyond what the backend would re-check.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// UserID returns the uid claim, falling back to the subject
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the effective single role from the roles claim
func (c *AccessClaims) Role() UserRole {
	return PrimaryRole(c.Roles, "")
}

// Expires returns the expiration time, zero when the claim is absent
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued-at time, zero when the claim is absent
func (c *AccessClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
