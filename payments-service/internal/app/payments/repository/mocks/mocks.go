package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"staybnb/payments-service/internal/app/payments/entity"
)

// MockWalletRepository мок для WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error) {
	args := m.Called(ctx, userID, amount, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movement), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID uuid.UUID, amount float64, key string) (*entity.Movement, error) {
	args := m.Called(ctx, userID, amount, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movement), args.Error(1)
}

func (m *MockWalletRepository) GetMovement(ctx context.Context, key string) (*entity.Movement, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movement), args.Error(1)
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

// MockIdempotencyCache мок для IdempotencyCache
type MockIdempotencyCache struct {
	mock.Mock
}

func (m *MockIdempotencyCache) Get(ctx context.Context, key string) (*entity.Movement, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movement), args.Error(1)
}

func (m *MockIdempotencyCache) Set(ctx context.Context, movement *entity.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}
