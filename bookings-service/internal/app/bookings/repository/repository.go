package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/availability"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrOverlap даты пересекаются с действующим бронированием объявления
	ErrOverlap = errors.New("listing is already booked for the requested dates")
)

type BookingRepository interface {
	// Create повторно проверяет пересечение под блокировкой объявления и сохраняет бронирование
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// GetByListing status == "" означает все статусы
	GetByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error)
	GetByGuest(ctx context.Context, guestID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error)
	CountByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) (int64, error)
	// ActiveRanges диапазоны всех неотмененных бронирований объявления
	ActiveRanges(ctx context.Context, listingID uuid.UUID) ([]availability.DateRange, error)
}
