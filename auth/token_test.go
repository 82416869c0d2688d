package auth

import (
	"testing"
	"time"

	"velour/globals"
	"velour/middleware"
	"velour/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := models.User{
		UserID: "u_abc123",
		Email:  "ada@example.com",
		Role:   []string{"user", "admin"},
	}

	token, err := generateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := middleware.ValidateJWT("Bearer " + token)
	require.NoError(t, err)

	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

// Rotation must work after the short-lived access token lapses: the
// refresh gate is the stored hash + expiry, never the access token.
func TestRefreshValidAfterAccessTokenExpiry(t *testing.T) {
	raw, err := generateRefreshToken()
	require.NoError(t, err)

	user := models.User{
		UserID:        "u_abc123",
		Email:         "ada@example.com",
		RefreshToken:  hashToken(raw),
		RefreshExpiry: time.Now().Add(refreshTokenTTL),
	}

	// An access token already past its window no longer authenticates...
	expired := &middleware.Claims{
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	_, err = middleware.ValidateJWT("Bearer " + signed)
	require.Error(t, err)

	// ...but the refresh token still rotates.
	assert.True(t, refreshValid(user, raw, time.Now()))
}

func TestRefreshValidRejections(t *testing.T) {
	raw, err := generateRefreshToken()
	require.NoError(t, err)

	user := models.User{
		RefreshToken:  hashToken(raw),
		RefreshExpiry: time.Now().Add(time.Hour),
	}

	t.Run("WrongToken", func(t *testing.T) {
		assert.False(t, refreshValid(user, "not-the-token", time.Now()))
	})

	t.Run("Expired", func(t *testing.T) {
		assert.False(t, refreshValid(user, raw, time.Now().Add(2*time.Hour)))
	})

	t.Run("NoStoredToken", func(t *testing.T) {
		assert.False(t, refreshValid(models.User{}, "", time.Now()))
	})
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := generateRefreshToken()
	require.NoError(t, err)
	b, err := generateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)

	assert.Equal(t, hashToken(a), hashToken(a))
	assert.NotEqual(t, hashToken(a), hashToken(b))
	assert.NotEqual(t, a, hashToken(a), "stored value must not be the raw token")
}
