package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybnb/reviews-service/internal/app/reviews/entity"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetForBooking(ctx context.Context, bookingID string, targetType entity.TargetType) (*entity.Review, error) {
	args := m.Called(ctx, bookingID, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, targetType entity.TargetType, targetID string) (*float64, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessagePublisher мок для infrastructure.MessagePublisher.
// Сохраняет отправленные сообщения для проверки в тестах.
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockBookingsClient мок для infrastructure.BookingsServiceClient
type MockBookingsClient struct {
	mock.Mock
}

func (m *MockBookingsClient) GetListingIDForBooking(ctx context.Context, bookingID string) (string, error) {
	args := m.Called(ctx, bookingID)
	return args.String(0), args.Error(1)
}

func (m *MockBookingsClient) GetGuestIDForBooking(ctx context.Context, bookingID string) (string, error) {
	args := m.Called(ctx, bookingID)
	return args.String(0), args.Error(1)
}

// MockListingsClient мок для infrastructure.ListingsServiceClient
type MockListingsClient struct {
	mock.Mock
}

func (m *MockListingsClient) GetListingHostID(ctx context.Context, listingID string) (string, error) {
	args := m.Called(ctx, listingID)
	return args.String(0), args.Error(1)
}
