package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"staybnb/identity-service/internal/app/identity/entity"
	"staybnb/pkg/auth"
)

// JWTManager выпускает токены в формате auth.Claims, их проверяют все сервисы
type JWTManager struct {
	secretKey            string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

func NewJWTManager(secretKey string, accessDuration, refreshDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:            secretKey,
		accessTokenDuration:  accessDuration,
		refreshTokenDuration: refreshDuration,
	}
}

// GenerateAccessToken подписывает access токен с id и ролью пользователя
func (m *JWTManager) GenerateAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := auth.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// GenerateRefreshToken случайная непрозрачная строка
func (m *JWTManager) GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (m *JWTManager) ValidateToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseClaims(tokenString, []byte(m.secretKey))
}

func (m *JWTManager) AccessTokenDuration() time.Duration {
	return m.accessTokenDuration
}

func (m *JWTManager) RefreshTokenDuration() time.Duration {
	return m.refreshTokenDuration
}
