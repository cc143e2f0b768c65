package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/pkg/availability"
	"staybnb/pkg/metrics"
)

const (
	serviceName   = "bookings-service"
	bookingsTable = "bookings"
)

type bookingRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewBookingRepository создает новый репозиторий бронирований
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Migrate создает таблицу bookings
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.Booking{})
}

// Create сохраняет бронирование в транзакции.
// Advisory lock по объявлению сериализует конкурентные бронирования одного объявления,
// поэтому проверка пересечения и вставка выполняются атомарно.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, bookingsTable)
	defer timer.ObserveDuration()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", booking.ListingID.String()).Error; err != nil {
			return fmt.Errorf("failed to lock listing: %w", err)
		}

		// [checkIn, checkOut) пересекается с [a, b) если checkIn < b и a < checkOut
		var conflicts int64
		err := tx.Model(&entity.Booking{}).
			Where("listing_id = ? AND status <> ? AND check_in_date < ? AND check_out_date > ?",
				booking.ListingID, entity.BookingStatusCancelled, booking.CheckOutDate, booking.CheckInDate).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if conflicts > 0 {
			return ErrOverlap
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrOverlap) {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
	}
	return err
}

// GetByID получает бронирование по ID
func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, bookingsTable)
	defer timer.ObserveDuration()

	var booking entity.Booking
	result := r.db.WithContext(ctx).First(&booking, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get booking: %w", result.Error)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	return r.find(ctx, "listing_id = ?", listingID, status)
}

func (r *bookingRepository) GetByGuest(ctx context.Context, guestID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	return r.find(ctx, "guest_id = ?", guestID, status)
}

func (r *bookingRepository) find(ctx context.Context, cond string, id uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, bookingsTable)
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).Where(cond, id)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []entity.Booking
	if err := query.Order("check_in_date ASC").Find(&bookings).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByListing(ctx context.Context, listingID uuid.UUID, status entity.BookingStatus) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, bookingsTable)
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).Model(&entity.Booking{}).Where("listing_id = ?", listingID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) ActiveRanges(ctx context.Context, listingID uuid.UUID) ([]availability.DateRange, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, bookingsTable)
	defer timer.ObserveDuration()

	var bookings []entity.Booking
	err := r.db.WithContext(ctx).
		Select("check_in_date", "check_out_date").
		Where("listing_id = ? AND status <> ?", listingID, entity.BookingStatusCancelled).
		Order("check_in_date ASC").
		Find(&bookings).Error
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get booked ranges: %w", err)
	}

	ranges := make([]availability.DateRange, 0, len(bookings))
	for i := range bookings {
		ranges = append(ranges, bookings[i].Dates())
	}
	return ranges, nil
}
