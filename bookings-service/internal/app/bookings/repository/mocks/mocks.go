package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/availability"
)

// MockBookingRepository мок для BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	args := m.Called(ctx, listingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByGuest(ctx context.Context, guestID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	args := m.Called(ctx, guestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) (int64, error) {
	args := m.Called(ctx, listingID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ActiveRanges(ctx context.Context, listingID uuid.UUID) ([]availability.DateRange, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]availability.DateRange), args.Error(1)
}

// MockMessagePublisher мок для infrastructure.MessagePublisher.
// Messages копит отправленные события для проверок в тестах.
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	m.Messages = append(m.Messages, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockListingsClient мок для infrastructure.ListingsServiceClient
type MockListingsClient struct {
	mock.Mock
}

func (m *MockListingsClient) GetTotalCost(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (float64, error) {
	args := m.Called(ctx, listingID, dates)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockListingsClient) GetListingHostID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockPaymentsClient мок для infrastructure.PaymentsServiceClient
type MockPaymentsClient struct {
	mock.Mock
}

func (m *MockPaymentsClient) SubtractFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	return args.Error(0)
}

func (m *MockPaymentsClient) AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	return args.Error(0)
}

// MockReviewsClient мок для infrastructure.ReviewsServiceClient
type MockReviewsClient struct {
	mock.Mock
}

func (m *MockReviewsClient) GetReviewForBooking(ctx context.Context, targetType string, bookingID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, targetType, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}
