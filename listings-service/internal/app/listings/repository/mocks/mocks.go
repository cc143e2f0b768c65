package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/pkg/availability"
)

// MockListingRepository мок для ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing, amenityIDs []string) error {
	args := m.Called(ctx, listing, amenityIDs)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) GetByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) GetFeatured(ctx context.Context, limit int) ([]entity.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *entity.Listing, amenityIDs []string) error {
	args := m.Called(ctx, listing, amenityIDs)
	return args.Error(0)
}

func (m *MockListingRepository) GetAmenities(ctx context.Context) ([]entity.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Amenity), args.Error(1)
}

// MockListingCache мок для util.ListingCache
type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) GetAmenities(ctx context.Context) ([]entity.Amenity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Amenity), args.Error(1)
}

func (m *MockListingCache) SetAmenities(ctx context.Context, amenities []entity.Amenity, ttl time.Duration) error {
	args := m.Called(ctx, amenities, ttl)
	return args.Error(0)
}

func (m *MockListingCache) GetFeatured(ctx context.Context) ([]entity.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingCache) SetFeatured(ctx context.Context, listings []entity.Listing, ttl time.Duration) error {
	args := m.Called(ctx, listings, ttl)
	return args.Error(0)
}

func (m *MockListingCache) DeleteFeatured(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMessagePublisher мок для util.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockBookingsClient мок для infrastructure.BookingsServiceClient
type MockBookingsClient struct {
	mock.Mock
}

func (m *MockBookingsClient) IsListingAvailable(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (bool, error) {
	args := m.Called(ctx, listingID, dates)
	return args.Bool(0), args.Error(1)
}
