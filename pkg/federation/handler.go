package federation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staybnb/pkg/apperror"
)

type entitiesRequest struct {
	Representations []EntityStub `json:"representations" binding:"required,dive"`
}

// EntityError ошибка разрешения одной ссылки
type EntityError struct {
	Index    int    `json:"index"`
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type entitiesResponse struct {
	Entities []any         `json:"entities"`
	Errors   []EntityError `json:"errors,omitempty"`
}

// EntitiesHandler обрабатывает POST /_entities.
// Слот неразрешенной ссылки равен null, причина попадает в errors.
func EntitiesHandler(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entitiesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		resolutions := resolver.ResolveAll(c.Request.Context(), req.Representations)

		response := entitiesResponse{Entities: make([]any, len(resolutions))}
		for i, res := range resolutions {
			if res.Err != nil {
				response.Errors = append(response.Errors, EntityError{
					Index:    i,
					Typename: res.Stub.Typename,
					ID:       res.Stub.ID,
					Code:     apperror.KindOf(res.Err).String(),
					Message:  apperror.PublicMessage(res.Err),
				})
				continue
			}
			response.Entities[i] = res.Entity
		}

		c.JSON(http.StatusOK, response)
	}
}

// RespondResult отдает конверт мутации с HTTP статусом из поля code
func RespondResult[T any](c *gin.Context, result Result[T]) {
	c.JSON(result.Code, result)
}

// RespondError отдает ошибку запроса (не мутации) в формате {"error", "code"}
func RespondError(c *gin.Context, err error) {
	c.JSON(apperror.HTTPStatus(err), gin.H{
		"error": apperror.PublicMessage(err),
		"code":  apperror.KindOf(err).String(),
	})
}
