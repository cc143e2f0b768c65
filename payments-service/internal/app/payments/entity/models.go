package entity

import (
	"time"

	"github.com/google/uuid"
)

// MovementType направление движения средств
type MovementType string

const (
	MovementDebit  MovementType = "debit"
	MovementCredit MovementType = "credit"
)

// Movement строка журнала кошелька. Ключ идемпотентности уникален,
// повтор запроса с тем же ключом возвращает исходную строку.
type Movement struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"userId"`
	Type           MovementType `json:"type"`
	Amount         float64      `json:"amount"`
	BalanceAfter   float64      `json:"balanceAfter"`
	IdempotencyKey string       `json:"idempotencyKey"`
	CreatedAt      time.Time    `json:"createdAt"`
	Replayed       bool         `json:"replayed"` // ответ взят из журнала, средства не двигались
}

// Balance текущий остаток кошелька
type Balance struct {
	UserID  uuid.UUID `json:"userId"`
	Balance float64   `json:"balance"`
}
