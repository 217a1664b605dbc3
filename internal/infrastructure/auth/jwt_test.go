package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivenda/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "vivenda-test",
	}
	return NewJWTService(cfg)
}

func TestJWTService_GenerateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "ana@example.pt")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("accepts a freshly issued token", func(t *testing.T) {
		svc := newTestJWTService()
		userID := uuid.New()

		token, _, err := svc.GenerateToken(userID, "ana@example.pt")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "ana@example.pt", claims.Email)
		assert.Equal(t, "vivenda-test", claims.Issuer)

		parsed, err := claims.ParseUserID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		svc := newTestJWTService()

		claims, err := svc.ValidateToken("not.a.token")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		svc := newTestJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-32-char-key",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "vivenda-test",
		})

		token, _, err := other.GenerateToken(uuid.New(), "")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "vivenda-test",
		})

		token, _, err := svc.GenerateToken(uuid.New(), "")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
