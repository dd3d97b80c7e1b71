package gymauth_test

import (
	"testing"
	"time"

	"github.com/fitstack/go-gymauth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenInspector_Decode(t *testing.T) {
	inspector := gymauth.NewTokenInspector()

	token := mintToken(t, gymauth.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UID:   "user-1",
		Email: "pepe.rone@example.com",
		Roles: []string{"MEMBER", "TRAINER"},
	})

	claims, err := inspector.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "pepe.rone@example.com", claims.Email)
	assert.Equal(t, gymauth.RoleMember, claims.Role())
}

func TestTokenInspector_DecodeIgnoresSignature(t *testing.T) {
	inspector := gymauth.NewTokenInspector()

	token := mintToken(t, jwt.MapClaims{
		"sub": "user-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	// tamper with the signature segment, decoding should still succeed
	tampered := token[:len(token)-4] + "AAAA"

	claims, err := inspector.Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID())
}

func TestTokenInspector_DecodeMalformed(t *testing.T) {
	inspector := gymauth.NewTokenInspector()

	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		_, err := inspector.Decode(token)
		require.Error(t, err)
		assert.True(t, gymauth.IsAuthFailure(err))
	}
}

func TestTokenInspector_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inspector := gymauth.NewTokenInspector(
		gymauth.WithInspectorClock(func() time.Time { return now }),
	)

	t.Run("future expiry is live", func(t *testing.T) {
		token := mintToken(t, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
		})
		assert.False(t, inspector.IsExpired(token))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		token := mintToken(t, jwt.MapClaims{
			"exp": now.Add(-time.Minute).Unix(),
		})
		assert.True(t, inspector.IsExpired(token))
	})

	t.Run("expiry at the boundary is expired", func(t *testing.T) {
		token := mintToken(t, jwt.MapClaims{
			"exp": now.Unix(),
		})
		assert.True(t, inspector.IsExpired(token))
	})

	t.Run("missing exp claim is expired", func(t *testing.T) {
		token := mintToken(t, jwt.MapClaims{
			"sub": "user-3",
		})
		assert.True(t, inspector.IsExpired(token))
	})

	t.Run("malformed token is expired", func(t *testing.T) {
		assert.True(t, inspector.IsExpired("garbage"))
		assert.True(t, inspector.IsExpired(""))
	})
}
