package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staybnb/pkg/apperror"
)

const (
	identityContextKey = "identity"
	tokenContextKey    = "auth_token"
)

// Identify разрешает заголовок Authorization и кладет Identity в контекст Gin.
// Запрос без заголовка идет дальше как анонимный, нераспознанный токен отклоняется с 401.
func Identify(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(identityContextKey, Anonymous)
			c.Next()
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, apperror.Authentication())
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, apperror.Wrap(err, apperror.KindAuthentication, apperror.ErrAuthentication.Message))
			return
		}

		// Сохраняем токен для запросов к соседним сервисам
		c.Set(tokenContextKey, parts[1])
		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireRole отклоняет запрос до обработчика, если роль не из списка
func RequireRole(message string, roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Require(FromContext(c), message, roles...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// Authenticated пропускает только запросы с идентичностью
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := RequireAuthenticated(FromContext(c)); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// FromContext возвращает Identity из контекста Gin, Anonymous если ее нет
func FromContext(c *gin.Context) Identity {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return Anonymous
	}
	identity, ok := value.(Identity)
	if !ok {
		return Anonymous
	}
	return identity
}

// TokenFromContext возвращает исходный bearer токен запроса
func TokenFromContext(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}

func abortWithError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": apperror.PublicMessage(err),
		"code":  apperror.KindOf(err).String(),
	})
}
