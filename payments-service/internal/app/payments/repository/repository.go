package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"staybnb/payments-service/internal/app/payments/entity"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrKeyConflict ключ идемпотентности уже занят движением другого типа или пользователя
	ErrKeyConflict = errors.New("idempotency key already used for another operation")
)

// WalletRepository кошельки и журнал движений в PostgreSQL
type WalletRepository interface {
	// Debit списывает amount, только если остаток не уходит в минус
	Debit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error)
	// Credit зачисляет amount, создавая кошелек при необходимости
	Credit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error)
	GetMovement(ctx context.Context, key string) (*entity.Movement, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (float64, error)
}

// IdempotencyCache быстрый путь для повторов в Redis
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*entity.Movement, error)
	Set(ctx context.Context, movement *entity.Movement) error
}
