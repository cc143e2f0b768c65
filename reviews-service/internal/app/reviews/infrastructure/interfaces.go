package infrastructure

import "context"

// MessagePublisher интерфейс для отправки событий в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}

// BookingsServiceClient связь отзыва с бронированием
type BookingsServiceClient interface {
	GetListingIDForBooking(ctx context.Context, bookingID string) (string, error)
	GetGuestIDForBooking(ctx context.Context, bookingID string) (string, error)
}

// ListingsServiceClient хозяин объявления
type ListingsServiceClient interface {
	GetListingHostID(ctx context.Context, listingID string) (string, error)
}
