package service

import (
	"context"

	"github.com/google/uuid"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/auth"
	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
)

// BookingsServiceInterface запросы о бронированиях для handlers
type BookingsServiceInterface interface {
	GetBooking(ctx context.Context, identity auth.Identity, id string) (*entity.BookingResponse, error)
	GetBookingsForListing(ctx context.Context, identity auth.Identity, listingID string, status entity.BookingStatus) ([]entity.BookingResponse, error)
	GetGuestBookings(ctx context.Context, identity auth.Identity, status entity.BookingStatus) ([]entity.BookingResponse, error)
	GetCurrentGuestBooking(ctx context.Context, identity auth.Identity) (*entity.BookingResponse, error)
	IsListingAvailable(ctx context.Context, listingID string, query *entity.DatesQuery) (bool, error)
	CurrentlyBookedDates(ctx context.Context, listingID string) ([]availability.DateRange, error)
	NumberOfUpcomingBookings(ctx context.Context, listingID string) (int64, error)
	GetListingIDForBooking(ctx context.Context, bookingID string) (uuid.UUID, error)
	GetGuestIDForBooking(ctx context.Context, bookingID string) (uuid.UUID, error)
}

// BookingOrchestrator оформление бронирования
type BookingOrchestrator interface {
	CreateBooking(ctx context.Context, identity auth.Identity, req *entity.CreateBookingRequest) (federation.Result[entity.BookingResponse], error)
}
