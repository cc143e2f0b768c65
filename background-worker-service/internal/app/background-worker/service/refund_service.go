package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"staybnb/background-worker-service/internal/app/background-worker/entity"
	"staybnb/background-worker-service/internal/app/background-worker/repository"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

// RefundService довозвращает средства, которые оркестратор бронирований не смог вернуть сразу.
// Ключ идемпотентности берется из события, поэтому повторная доставка не зачисляет дважды.
type RefundService struct {
	payments  PaymentsClient
	processed repository.ProcessedEventRepository
}

func NewRefundService(payments PaymentsClient, processed repository.ProcessedEventRepository) *RefundService {
	return &RefundService{
		payments:  payments,
		processed: processed,
	}
}

// ProcessBookingEvent обрабатывает BOOKING_REFUND_PENDING, остальные события пропускает.
// Ошибка означает, что сообщение нужно прочитать снова.
func (s *RefundService) ProcessBookingEvent(ctx context.Context, event *entity.BookingEvent) error {
	if event.EventType != entity.EventBookingRefundPending {
		return nil
	}

	log := logger.With().
		Str("attempt_id", event.AttemptID.String()).
		Str("idempotency_key", event.IdempotencyKey).
		Logger()

	if event.IdempotencyKey == "" || event.GuestID == uuid.Nil || event.Amount <= 0 {
		// повтор такого события ничего не исправит
		log.Warn().Float64("amount", event.Amount).Msg("Skipping malformed refund event")
		return nil
	}

	processed, err := s.processed.IsProcessed(ctx, event.IdempotencyKey)
	if err != nil {
		// без Redis полагаемся на идемпотентность payments-service
		log.Warn().Err(err).Msg("Failed to check processed refunds")
	}
	if processed {
		metrics.WorkerRefunds.WithLabelValues("duplicate").Inc()
		log.Info().Msg("Refund already processed, skipping")
		return nil
	}

	timer := metrics.NewTimer()
	err = s.payments.AddFunds(ctx, event.GuestID, event.Amount, event.IdempotencyKey)
	metrics.WorkerProcessingDuration.WithLabelValues("refund").Observe(timer.Seconds())
	if err != nil {
		metrics.WorkerRefunds.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to refund guest %s: %w", event.GuestID, err)
	}

	metrics.WorkerRefunds.WithLabelValues("success").Inc()
	log.Info().
		Str("guest_id", event.GuestID.String()).
		Float64("amount", event.Amount).
		Msg("Pending refund completed")

	if err := s.processed.MarkProcessed(ctx, event.IdempotencyKey); err != nil {
		log.Warn().Err(err).Msg("Failed to mark refund processed")
	}
	return nil
}
