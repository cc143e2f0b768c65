package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"staybnb/listings-service/internal/app/listings/entity"
)

var (
	ErrNotFound       = errors.New("listing not found")
	ErrUnknownAmenity = errors.New("unknown amenity")
)

// ListingRepository объявления и справочник удобств в PostgreSQL
type ListingRepository interface {
	// Create сохраняет объявление вместе со списком удобств
	Create(ctx context.Context, listing *entity.Listing, amenityIDs []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	GetByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error)
	// List выбирает кандидатов поиска, порядок выдачи задает фильтр
	List(ctx context.Context, filter entity.ListingFilter) ([]entity.Listing, error)
	GetFeatured(ctx context.Context, limit int) ([]entity.Listing, error)
	// Update перезаписывает поля; amenityIDs == nil оставляет удобства как есть
	Update(ctx context.Context, listing *entity.Listing, amenityIDs []string) error
	GetAmenities(ctx context.Context) ([]entity.Amenity, error)
}
