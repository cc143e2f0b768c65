package service

import (
	"context"
	"fmt"
	"time"

	"staybnb/background-worker-service/internal/app/background-worker/repository"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

// LifecycleService завершает бронирования, у которых наступила дата выезда
type LifecycleService struct {
	bookingRepo repository.BookingRepository
	now         func() time.Time
}

func NewLifecycleService(bookingRepo repository.BookingRepository) *LifecycleService {
	return &LifecycleService{
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
}

// CompleteFinishedBookings UPCOMING -> COMPLETED для check_out_date <= сегодня (UTC)
func (s *LifecycleService) CompleteFinishedBookings(ctx context.Context) (int64, error) {
	timer := metrics.NewTimer()
	defer func() {
		metrics.WorkerProcessingDuration.WithLabelValues("booking_lifecycle").Observe(timer.Seconds())
	}()

	year, month, day := s.now().UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	completed, err := s.bookingRepo.CompleteFinished(ctx, today)
	if err != nil {
		metrics.WorkerBookingsCompleted.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to complete finished bookings: %w", err)
	}

	metrics.WorkerBookingsCompleted.WithLabelValues("success").Add(float64(completed))
	logger.Info().
		Int64("completed", completed).
		Str("today", today.Format("2006-01-02")).
		Msg("Booking lifecycle pass finished")

	return completed, nil
}
