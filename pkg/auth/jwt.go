package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims claims access токена, выдаваемого Identity Service
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Resolver сопоставляет учетные данные с пользователем и ролью
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}

// JWTResolver проверяет токен локально по общему секрету
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// ParseClaims проверяет подпись и срок действия токена
func ParseClaims(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (r *JWTResolver) Resolve(_ context.Context, credential string) (Identity, error) {
	claims, err := ParseClaims(credential, r.secret)
	if err != nil {
		return Anonymous, err
	}

	role, err := ParseRole(claims.Role)
	if err != nil || claims.UserID == "" {
		return Anonymous, ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Role: role}, nil
}
