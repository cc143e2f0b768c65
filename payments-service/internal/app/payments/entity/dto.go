package entity

import "github.com/google/uuid"

// FundsRequest - запрос на списание или зачисление
type FundsRequest struct {
	UserID         uuid.UUID `json:"userId" validate:"required"`
	Amount         float64   `json:"amount" validate:"gt=0"`
	IdempotencyKey string    `json:"idempotencyKey" validate:"omitempty,max=200"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
