package repository

import (
	"context"

	"staybnb/reviews-service/internal/app/reviews/entity"
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetForBooking(ctx context.Context, bookingID string, targetType entity.TargetType) (*entity.Review, error)
	AverageRating(ctx context.Context, targetType entity.TargetType, targetID string) (*float64, error)
	Delete(ctx context.Context, id string) error
}
