package service

import (
	"context"

	"github.com/google/uuid"

	"staybnb/background-worker-service/internal/app/background-worker/entity"
)

// LifecycleServiceInterface переходы статусов бронирований по расписанию
type LifecycleServiceInterface interface {
	CompleteFinishedBookings(ctx context.Context) (int64, error)
}

// RefundServiceInterface обработка событий из booking_events
type RefundServiceInterface interface {
	ProcessBookingEvent(ctx context.Context, event *entity.BookingEvent) error
}

// PaymentsClient зачисление средств в payments-service
type PaymentsClient interface {
	AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error
}
