package service

import (
	"context"

	"github.com/google/uuid"

	"staybnb/payments-service/internal/app/payments/entity"
)

// PaymentsServiceInterface интерфейс сервиса кошельков
type PaymentsServiceInterface interface {
	SubtractFunds(ctx context.Context, req *entity.FundsRequest) (*entity.Movement, error)
	AddFunds(ctx context.Context, req *entity.FundsRequest) (*entity.Movement, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*entity.Balance, error)
}
