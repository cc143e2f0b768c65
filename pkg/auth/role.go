// Package auth содержит роли пользователей, шлюз авторизации
// и проверку JWT токенов, общие для всех сервисов.
package auth

import (
	"fmt"

	"staybnb/pkg/apperror"
)

// Role закрытое перечисление ролей вызывающего
type Role int

const (
	RoleUnauthenticated Role = iota
	RoleGuest
	RoleHost
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "Guest"
	case RoleHost:
		return "Host"
	default:
		return "Unauthenticated"
	}
}

// ParseRole разбирает роль из строки, хранящейся в БД и в токене
func ParseRole(s string) (Role, error) {
	switch s {
	case "Guest":
		return RoleGuest, nil
	case "Host":
		return RoleHost, nil
	default:
		return RoleUnauthenticated, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Identity результат разрешения учетных данных
type Identity struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
}

// Anonymous идентичность запроса без токена
var Anonymous = Identity{Role: RoleUnauthenticated}

func (i Identity) Authenticated() bool {
	return i.UserID != "" && i.Role != RoleUnauthenticated
}

// Require проверяет роль до любой работы с побочными эффектами.
// Без идентичности возвращает AuthenticationError, при неподходящей роли ForbiddenError с message.
func Require(identity Identity, message string, allowed ...Role) error {
	if !identity.Authenticated() {
		return apperror.Authentication()
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return apperror.Forbidden(message)
}

// RequireAuthenticated пропускает любую роль, кроме анонимной
func RequireAuthenticated(identity Identity) error {
	if !identity.Authenticated() {
		return apperror.Authentication()
	}
	return nil
}
