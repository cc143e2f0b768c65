package http

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/serviceclient"
)

// ReviewsClient клиент reviews-service
type ReviewsClient struct {
	client *serviceclient.Client
}

func NewReviewsClient(client *serviceclient.Client) *ReviewsClient {
	return &ReviewsClient{client: client}
}

// GetReviewForBooking отвечает null, если отзыв еще не оставлен
func (c *ReviewsClient) GetReviewForBooking(ctx context.Context, targetType string, bookingID uuid.UUID) (*entity.Review, error) {
	var review *entity.Review
	query := url.Values{"targetType": {targetType}}
	if err := c.client.Get(ctx, "/reviews/booking/"+bookingID.String(), query, &review); err != nil {
		return nil, err
	}
	return review, nil
}
