package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/bookings-service/internal/app/bookings/repository"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/availability"
)

// memoryBookings хранилище бронирований с той же проверкой пересечений, что и в PostgreSQL
type memoryBookings struct {
	mu       sync.Mutex
	bookings []entity.Booking
}

func (r *memoryBookings) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make([]availability.DateRange, 0, len(r.bookings))
	for i := range r.bookings {
		if r.bookings[i].ListingID == booking.ListingID && r.bookings[i].Status != entity.BookingStatusCancelled {
			existing = append(existing, r.bookings[i].Dates())
		}
	}
	if !availability.IsAvailable(booking.Dates(), existing) {
		return repository.ErrOverlap
	}
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *memoryBookings) GetByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			booking := r.bookings[i]
			return &booking, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (r *memoryBookings) GetByListing(_ context.Context, listingID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	return r.filter(func(b entity.Booking) bool {
		return b.ListingID == listingID && (status == "" || b.Status == status)
	}), nil
}

func (r *memoryBookings) GetByGuest(_ context.Context, guestID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	return r.filter(func(b entity.Booking) bool {
		return b.GuestID == guestID && (status == "" || b.Status == status)
	}), nil
}

func (r *memoryBookings) CountByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) (int64, error) {
	bookings, _ := r.GetByListing(ctx, listingID, status)
	return int64(len(bookings)), nil
}

func (r *memoryBookings) ActiveRanges(_ context.Context, listingID uuid.UUID) ([]availability.DateRange, error) {
	var ranges []availability.DateRange
	for _, b := range r.filter(func(b entity.Booking) bool {
		return b.ListingID == listingID && b.Status != entity.BookingStatusCancelled
	}) {
		ranges = append(ranges, b.Dates())
	}
	return ranges, nil
}

func (r *memoryBookings) filter(keep func(entity.Booking) bool) []entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Booking
	for _, b := range r.bookings {
		if keep(b) {
			result = append(result, b)
		}
	}
	return result
}

// fixedPriceListings одно объявление с ценой за ночь
type fixedPriceListings struct {
	listingID    uuid.UUID
	hostID       uuid.UUID
	costPerNight float64
}

func (l *fixedPriceListings) GetTotalCost(_ context.Context, listingID uuid.UUID, dates availability.DateRange) (float64, error) {
	if listingID != l.listingID {
		return 0, apperror.NotFound("Listing not found")
	}
	return float64(dates.Nights()) * l.costPerNight, nil
}

func (l *fixedPriceListings) GetListingHostID(_ context.Context, listingID uuid.UUID) (uuid.UUID, error) {
	if listingID != l.listingID {
		return uuid.Nil, apperror.NotFound("Listing not found")
	}
	return l.hostID, nil
}

// memoryWallet кошелек с идемпотентными движениями
type memoryWallet struct {
	mu       sync.Mutex
	balances map[uuid.UUID]float64
	applied  map[string]bool
	debits   []float64
}

func (w *memoryWallet) SubtractFunds(_ context.Context, userID uuid.UUID, amount float64, key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.applied[key] {
		return nil
	}
	if w.balances[userID] < amount {
		return apperror.InsufficientFunds("Insufficient funds")
	}
	w.balances[userID] -= amount
	w.applied[key] = true
	w.debits = append(w.debits, amount)
	return nil
}

func (w *memoryWallet) AddFunds(_ context.Context, userID uuid.UUID, amount float64, key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.applied[key] {
		return nil
	}
	w.balances[userID] += amount
	w.applied[key] = true
	return nil
}

type discardPublisher struct{}

func (discardPublisher) PublishMessage(context.Context, string, []byte) error { return nil }
func (discardPublisher) Close() error                                         { return nil }

type noReviews struct{}

func (noReviews) GetReviewForBooking(context.Context, string, uuid.UUID) (*entity.Review, error) {
	return nil, nil
}

// ===================== Booking Flow Tests =====================

func TestBookingFlow_BookThenOverlap(t *testing.T) {
	// Arrange
	ctx := context.Background()
	guestID := uuid.New()
	guest := auth.Identity{UserID: guestID.String(), Role: auth.RoleGuest}

	store := &memoryBookings{}
	listings := &fixedPriceListings{listingID: uuid.New(), hostID: uuid.New(), costPerNight: 100}
	wallet := &memoryWallet{
		balances: map[uuid.UUID]float64{guestID: 1000},
		applied:  map[string]bool{},
	}
	orchestrator := NewOrchestrator(store, listings, wallet, discardPublisher{})
	queries := NewBookingsService(store, listings, noReviews{})

	// Act: первое бронирование
	first, err := orchestrator.CreateBooking(ctx, guest, bookingRequest(listings.listingID, "2024-06-01", "2024-06-04"))

	// Assert
	require.NoError(t, err)
	require.True(t, first.Success, first.Message)
	assert.Equal(t, 300.0, first.Payload.TotalCost)
	assert.Equal(t, entity.BookingStatusUpcoming, first.Payload.Status)
	assert.Equal(t, 700.0, wallet.balances[guestID])

	// Act: пересекающееся бронирование [06-03, 06-05)
	second, err := orchestrator.CreateBooking(ctx, guest, bookingRequest(listings.listingID, "2024-06-03", "2024-06-05"))

	// Assert: отказ конвертом, списание возвращено
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, MsgOverlap, second.Message)
	assert.Equal(t, "OverlapError", second.ErrorCode)
	assert.Nil(t, second.Payload)
	assert.Equal(t, 700.0, wallet.balances[guestID])
	assert.Equal(t, []float64{300, 200}, wallet.debits)

	// граница не считается пересечением
	available, err := queries.IsListingAvailable(ctx, listings.listingID.String(), &entity.DatesQuery{CheckIn: "2024-06-04", CheckOut: "2024-06-06"})
	require.NoError(t, err)
	assert.True(t, available)

	trips, err := queries.GetGuestBookings(ctx, guest, entity.BookingStatusUpcoming)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, first.Payload.ID, trips[0].ID)
}

func TestBookingFlow_InsufficientFundsCreatesNothing(t *testing.T) {
	ctx := context.Background()
	guestID := uuid.New()
	guest := auth.Identity{UserID: guestID.String(), Role: auth.RoleGuest}

	store := &memoryBookings{}
	listings := &fixedPriceListings{listingID: uuid.New(), costPerNight: 100}
	wallet := &memoryWallet{
		balances: map[uuid.UUID]float64{guestID: 50},
		applied:  map[string]bool{},
	}
	orchestrator := NewOrchestrator(store, listings, wallet, discardPublisher{})

	result, err := orchestrator.CreateBooking(ctx, guest, bookingRequest(listings.listingID, "2024-06-01", "2024-06-04"))

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgInsufficientFunds, result.Message)
	assert.Empty(t, store.bookings)
	assert.Equal(t, 50.0, wallet.balances[guestID])
}
