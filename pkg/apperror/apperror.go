// Package apperror описывает таксономию ошибок, общую для всех сервисов.
package apperror

import (
	"errors"
	"net/http"
)

// Kind классифицирует ошибку
type Kind int

const (
	KindInternal          Kind = iota // Непредвиденная ошибка инфраструктуры
	KindAuthentication                // Нет идентичности
	KindForbidden                     // Идентичность есть, роли недостаточно
	KindNotFound                      // Сущность не найдена
	KindInsufficientFunds             // Списание отклонено платежным сервисом
	KindOverlap                       // Пересечение дат бронирования
	KindInvalidState                  // Данные нарушают инвариант
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "AuthenticationError"
	case KindForbidden:
		return "ForbiddenError"
	case KindNotFound:
		return "NotFoundError"
	case KindInsufficientFunds:
		return "InsufficientFundsError"
	case KindOverlap:
		return "OverlapError"
	case KindInvalidState:
		return "InvalidStateError"
	default:
		return "InternalError"
	}
}

// ParseKind обратное преобразование String, неизвестное имя дает KindInternal
func ParseKind(name string) Kind {
	for k := KindAuthentication; k <= KindInvalidState; k++ {
		if k.String() == name {
			return k
		}
	}
	return KindInternal
}

// Error ошибка приложения с классом и сообщением для пользователя
type Error struct {
	Kind    Kind
	Message string // Сообщение для клиента
	Err     error  // Исходная ошибка, наружу не отдается
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по классу, поэтому errors.Is(err, apperror.ErrNotFound)
// срабатывает для любого сообщения
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Эталонные значения для errors.Is
var (
	ErrAuthentication    = &Error{Kind: KindAuthentication, Message: "You must be logged in"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Message: "Insufficient funds"}
	ErrOverlap           = &Error{Kind: KindOverlap, Message: "Dates overlap with an existing booking"}
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "Invalid state"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Authentication() *Error {
	return New(KindAuthentication, ErrAuthentication.Message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func InsufficientFunds(message string) *Error {
	return New(KindInsufficientFunds, message)
}

func Overlap(message string) *Error {
	return New(KindOverlap, message)
}

func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

// KindOf возвращает класс ошибки, KindInternal для посторонних ошибок
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus переводит ошибку в HTTP статус
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientFunds:
		return http.StatusPaymentRequired
	case KindOverlap:
		return http.StatusConflict
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает сообщение, которое можно показать клиенту
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
