package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/availability"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ListingsServiceClient стоимость и владелец объявления из listings-service
type ListingsServiceClient interface {
	GetTotalCost(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (float64, error)
	GetListingHostID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error)
}

// PaymentsServiceClient движения средств в payments-service.
// Повтор с тем же idempotencyKey не двигает средства второй раз.
type PaymentsServiceClient interface {
	SubtractFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error
	AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error
}

// ReviewsServiceClient отзывы по бронированию, nil если отзыва нет
type ReviewsServiceClient interface {
	GetReviewForBooking(ctx context.Context, targetType string, bookingID uuid.UUID) (*entity.Review, error)
}
