package entity

import (
	"time"

	"github.com/google/uuid"

	"staybnb/pkg/auth"
)

// User пользователь платформы, роль Guest или Host задается при регистрации
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	Name         string    `json:"name" db:"name"`
	Role         auth.Role `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity идентичность пользователя для шлюза авторизации
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID.String(), Role: u.Role}
}

// RefreshToken хранит refresh токены для обновления JWT
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// Profile публичное представление Guest или Host для составного графа
type Profile struct {
	Typename string    `json:"__typename"`
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     auth.Role `json:"role"`
}
