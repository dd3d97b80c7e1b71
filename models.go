package gymauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAdmin manages members, staff, equipment and pricing
	RoleAdmin UserRole = "ADMIN"
	// RoleMember is a gym member (classes, invoices, workout history)
	RoleMember UserRole = "MEMBER"
	// RoleTrainer runs sessions and workout plans
	RoleTrainer UserRole = "TRAINER"
	// RoleStaff is front-desk staff
	RoleStaff UserRole = "STAFF"
)

// User is the client-side user model. The backend's authentication response
// may carry a list of roles; Role always holds the single effective role
// after normalization (see PrimaryRole).
type User struct {
	ID        string   `json:"id,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Role      UserRole `json:"role,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	IsActive  bool     `json:"isActive,omitempty"`
}

// Normalize collapses the server's roles list into the single client-side
// role. It returns the receiver for chaining.
func (u *User) Normalize() *User {
	if u == nil {
		return nil
	}
	u.Role = PrimaryRole(u.Roles, u.Role)
	return u
}

// AuthResponse is the payload of /auth/login, /auth/register and
// /auth/refresh. Refresh responses carry no user.
type AuthResponse struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// MessageResponse is the payload of the stateless auth flows
// (password reset, email verification).
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

// Token record keys. Fixed storage keys for the persisted pair, mirroring the
// web client's storage slots.
const (
	AccessTokenKey  = "auth_token"
	RefreshTokenKey = "refresh_token"
)

// TokenRecord is one persisted token slot
type TokenRecord struct {
	bun.BaseModel `bun:"table:session_tokens,alias:tok"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Key           string     `bun:"key,notnull,unique" json:"key,omitempty"`
	Value         string     `bun:"value,notnull" json:"value,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
