package util

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/identity-service/internal/app/identity/entity"
	"staybnb/pkg/auth"
)

func newTestUser() *entity.User {
	return &entity.User{
		ID:    uuid.New(),
		Email: "guest@example.com",
		Name:  "Guest",
		Role:  auth.RoleGuest,
	}
}

// ===================== JWT Tests =====================

func TestJWTManager_GenerateAccessToken_Success(t *testing.T) {
	// Arrange
	manager := NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	user := newTestUser()

	// Act
	token, err := manager.GenerateAccessToken(user)

	// Assert
	require.NoError(t, err)
	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "Guest", claims.Role)
	assert.Equal(t, user.Email, claims.Email)
}

func TestJWTManager_TokenAcceptedBySharedResolver(t *testing.T) {
	manager := NewJWTManager("test-secret-key", 15*time.Minute, time.Hour)
	user := newTestUser()
	user.Role = auth.RoleHost

	token, err := manager.GenerateAccessToken(user)
	require.NoError(t, err)

	identity, err := auth.NewJWTResolver("test-secret-key").Resolve(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: user.ID.String(), Role: auth.RoleHost}, identity)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(newTestUser())
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Minute, time.Hour).GenerateAccessToken(newTestUser())
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Minute, time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_GenerateRefreshToken_Unique(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Minute, time.Hour)

	first, err1 := manager.GenerateRefreshToken()
	second, err2 := manager.GenerateRefreshToken()

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

// ===================== Password Tests =====================

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestPassword_SaltedHashesDiffer(t *testing.T) {
	first, _ := HashPassword("password123")
	second, _ := HashPassword("password123")

	assert.NotEqual(t, first, second)
}
