package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestGenerateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "owner", false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "wheelorent-backend", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "user", true)
	require.NoError(t, err)

	t.Run("Valid Token", func(t *testing.T) {
		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := service.ValidateToken("invalid.token.here")
		assert.Error(t, err)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		wrongService := NewService("wrong-secret", time.Hour)
		_, err := wrongService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expiredService := NewService(testSecret, -time.Hour)
		expired, err := expiredService.GenerateToken(userID, "user", false)
		require.NoError(t, err)

		_, err = service.ValidateToken(expired)
		assert.Error(t, err)
	})
}
