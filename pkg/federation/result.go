package federation

import (
	"net/http"

	"staybnb/pkg/apperror"
)

// Result единый конверт ответа мутации.
// Ожидаемые отказы возвращаются здесь, а не ошибкой.
// ErrorCode класс отказа (OverlapError, InsufficientFundsError ...), пустой при успехе.
type Result[T any] struct {
	Code      int    `json:"code"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
	Payload   *T     `json:"payload,omitempty"`
}

func Succeeded[T any](message string, payload *T) Result[T] {
	return Result[T]{
		Code:    http.StatusOK,
		Success: true,
		Message: message,
		Payload: payload,
	}
}

func Failed[T any](code int, message string) Result[T] {
	return Result[T]{
		Code:    code,
		Success: false,
		Message: message,
	}
}

// FailedWith строит отказ из ошибки приложения.
// Отсутствующая сущность дает 404, остальные ожидаемые отказы 400.
func FailedWith[T any](err error) Result[T] {
	kind := apperror.KindOf(err)
	code := http.StatusBadRequest
	switch kind {
	case apperror.KindNotFound:
		code = http.StatusNotFound
	case apperror.KindAuthentication:
		code = http.StatusUnauthorized
	case apperror.KindForbidden:
		code = http.StatusForbidden
	}
	result := Failed[T](code, err.Error())
	result.ErrorCode = kind.String()
	return result
}
