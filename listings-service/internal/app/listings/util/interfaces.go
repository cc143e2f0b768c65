package util

import (
	"context"
	"time"

	"staybnb/listings-service/internal/app/listings/entity"
)

// ListingCache кеш справочника удобств и избранных объявлений.
// Промах возвращает (nil, nil).
type ListingCache interface {
	GetAmenities(ctx context.Context) ([]entity.Amenity, error)
	SetAmenities(ctx context.Context, amenities []entity.Amenity, ttl time.Duration) error
	GetFeatured(ctx context.Context) ([]entity.Listing, error)
	SetFeatured(ctx context.Context, listings []entity.Listing, ttl time.Duration) error
	DeleteFeatured(ctx context.Context) error
}

// MessagePublisher отправка событий в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
