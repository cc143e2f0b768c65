package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBookingRepository мок для BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CompleteFinished(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

// MockProcessedEventRepository мок для ProcessedEventRepository
type MockProcessedEventRepository struct {
	mock.Mock
}

func (m *MockProcessedEventRepository) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessedEventRepository) MarkProcessed(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockPaymentsClient мок для service.PaymentsClient
type MockPaymentsClient struct {
	mock.Mock
}

func (m *MockPaymentsClient) AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	return args.Error(0)
}
