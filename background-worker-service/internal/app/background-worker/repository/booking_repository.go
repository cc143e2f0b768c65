package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staybnb/background-worker-service/internal/app/background-worker/entity"
	"staybnb/pkg/metrics"
)

const serviceName = "background-worker"

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository создает репозиторий бронирований
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CompleteFinished(ctx context.Context, today time.Time) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "bookings")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Model(&entity.Booking{}).
		Where("status = ? AND check_out_date <= ?", entity.BookingStatusUpcoming, today).
		Update("status", entity.BookingStatusCompleted)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return 0, fmt.Errorf("failed to complete bookings: %w", result.Error)
	}

	return result.RowsAffected, nil
}
