package gymauth_test

import (
	"context"
	"testing"

	"github.com/fitstack/go-gymauth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := gymauth.FromContext(ctx)
	assert.False(t, ok)

	user := &gymauth.User{ID: "user-1", Role: gymauth.RoleMember}
	ctx = gymauth.WithContext(ctx, user)

	got, ok := gymauth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()

	_, ok := gymauth.GetClaims(ctx)
	assert.False(t, ok)

	claims := &gymauth.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Roles:            []string{"ADMIN"},
	}
	ctx = gymauth.WithClaimsContext(ctx, claims)

	got, ok := gymauth.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID())
	assert.Equal(t, gymauth.RoleAdmin, got.Role())
}

func TestGetRouterUser(t *testing.T) {
	user := &gymauth.User{ID: "user-1", Role: gymauth.RoleTrainer}
	identity := gymauth.NewIdentityFromUser(user)

	t.Run("present under the default key", func(t *testing.T) {
		mockCtx := new(MockContext)
		mockCtx.On("Locals", "user").Return(identity)

		got, ok := gymauth.GetRouterUser(mockCtx, "")
		require.True(t, ok)
		assert.Equal(t, "user-1", got.ID())

		assert.True(t, gymauth.HasRole(mockCtx, gymauth.RoleTrainer))
		assert.False(t, gymauth.HasRole(mockCtx, gymauth.RoleAdmin))
	})

	t.Run("missing", func(t *testing.T) {
		mockCtx := new(MockContext)
		mockCtx.On("Locals", "session").Return(nil)

		_, ok := gymauth.GetRouterUser(mockCtx, "session")
		assert.False(t, ok)
	})

	t.Run("wrong type", func(t *testing.T) {
		mockCtx := new(MockContext)
		mockCtx.On("Locals", "user").Return("not-a-user")

		_, ok := gymauth.GetRouterUser(mockCtx, "")
		assert.False(t, ok)
	})
}
