package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"staybnb/pkg/availability"
)

// BookingsServiceClient фасад bookings-service, нужный поиску
type BookingsServiceClient interface {
	IsListingAvailable(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (bool, error)
}
