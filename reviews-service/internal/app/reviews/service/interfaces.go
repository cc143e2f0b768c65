package service

import (
	"context"

	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/reviews-service/internal/app/reviews/entity"
)

// ReviewServiceInterface определяет методы сервиса отзывов для handler
type ReviewServiceInterface interface {
	SubmitHostAndLocationReviews(ctx context.Context, identity auth.Identity, bookingID string, req *entity.SubmitHostAndLocationRequest) (federation.Result[entity.HostAndLocationPayload], error)
	SubmitGuestReview(ctx context.Context, identity auth.Identity, bookingID string, req *entity.SubmitGuestReviewRequest) (federation.Result[entity.GuestReviewPayload], error)
	GetReview(ctx context.Context, id string) (*entity.ReviewResponse, error)
	GetReviewForBooking(ctx context.Context, bookingID string, targetType entity.TargetType) (*entity.ReviewResponse, error)
	GetHostRating(ctx context.Context, hostID string) (*entity.HostRating, error)
}
