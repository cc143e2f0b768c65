package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/bookings-service/internal/app/bookings/infrastructure"
	"staybnb/bookings-service/internal/app/bookings/repository"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
	"staybnb/pkg/tracing"
)

const (
	MsgBooked            = "Successfully booked!"
	MsgInsufficientFunds = "We couldn’t complete your request because your funds are insufficient."
	MsgOverlap           = "Listing is not available for the requested dates"
	MsgGuestsOnly        = "Only guests can book listings"
)

// Orchestrator оформляет бронирование: QUOTE -> RESERVE_FUNDS -> PERSIST.
// Шаги выполняются строго по очереди, каждый отказ превращается в конверт ответа.
// Если после списания сохранить бронирование не удалось, средства возвращаются
// компенсирующим зачислением с ключом booking:<attempt>:refund.
type Orchestrator struct {
	bookingRepo    repository.BookingRepository
	listingsClient infrastructure.ListingsServiceClient
	paymentsClient infrastructure.PaymentsServiceClient
	kafkaProducer  infrastructure.MessagePublisher
	tracer         trace.Tracer
}

func NewOrchestrator(
	bookingRepo repository.BookingRepository,
	listingsClient infrastructure.ListingsServiceClient,
	paymentsClient infrastructure.PaymentsServiceClient,
	kafkaProducer infrastructure.MessagePublisher,
) *Orchestrator {
	return &Orchestrator{
		bookingRepo:    bookingRepo,
		listingsClient: listingsClient,
		paymentsClient: paymentsClient,
		kafkaProducer:  kafkaProducer,
		tracer:         tracing.Tracer("staybnb/bookings-service"),
	}
}

// CreateBooking проверка роли выполняется до любых обращений к соседним сервисам,
// ее отказ возвращается ошибкой, а не конвертом
func (o *Orchestrator) CreateBooking(ctx context.Context, identity auth.Identity, req *entity.CreateBookingRequest) (federation.Result[entity.BookingResponse], error) {
	err := auth.Require(identity, MsgGuestsOnly, auth.RoleGuest)
	metrics.RecordSagaStep(metrics.SagaStepAuthorize, err)
	if err != nil {
		return federation.Result[entity.BookingResponse]{}, err
	}
	guestID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return federation.Result[entity.BookingResponse]{}, apperror.Authentication()
	}

	attemptID := uuid.New()
	ctx, span := o.tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.String("booking.attempt_id", attemptID.String()),
		attribute.String("listing.id", req.ListingID),
	))
	defer span.End()

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return o.fail(span, apperror.NotFound("Listing not found"))
	}

	dates, err := availability.ParseDateRange(req.CheckInDate, req.CheckOutDate)
	if err == nil {
		err = dates.Validate()
	}
	if err != nil {
		return o.fail(span, err)
	}

	// QUOTE
	var totalCost float64
	err = o.step(ctx, metrics.SagaStepQuote, func(ctx context.Context) error {
		var err error
		totalCost, err = o.listingsClient.GetTotalCost(ctx, listingID, dates)
		return err
	})
	if err != nil {
		return o.fail(span, err)
	}
	span.SetAttributes(attribute.Float64("booking.total_cost", totalCost))

	// RESERVE_FUNDS
	err = o.step(ctx, metrics.SagaStepDebit, func(ctx context.Context) error {
		return o.paymentsClient.SubtractFunds(ctx, guestID, totalCost, idempotencyKey(attemptID, "debit"))
	})
	if err != nil {
		if !errors.Is(err, apperror.ErrInsufficientFunds) {
			logger.Error().Err(err).
				Str("attempt_id", attemptID.String()).
				Msg("Failed to reserve funds")
		}
		span.RecordError(err)
		return federation.FailedWith[entity.BookingResponse](apperror.InsufficientFunds(MsgInsufficientFunds)), nil
	}

	// PERSIST
	booking := &entity.Booking{
		ID:           uuid.New(),
		ListingID:    listingID,
		GuestID:      guestID,
		CheckInDate:  dates.CheckIn,
		CheckOutDate: dates.CheckOut,
		TotalCost:    totalCost,
		Status:       entity.BookingStatusUpcoming,
		CreatedAt:    time.Now(),
	}
	err = o.step(ctx, metrics.SagaStepPersist, func(ctx context.Context) error {
		return o.bookingRepo.Create(ctx, booking)
	})
	if err != nil {
		o.compensate(ctx, attemptID, booking)
		if errors.Is(err, repository.ErrOverlap) {
			err = apperror.Overlap(MsgOverlap)
		}
		return o.fail(span, err)
	}

	metrics.BookingsCreated.Inc()
	metrics.BookingsAmount.Add(totalCost)

	o.publishEvent(ctx, booking.ID.String(), entity.BookingEvent{
		EventType: entity.EventBookingCreated,
		AttemptID: attemptID,
		BookingID: booking.ID,
		ListingID: booking.ListingID,
		GuestID:   booking.GuestID,
		Amount:    booking.TotalCost,
		Status:    booking.Status,
		Timestamp: time.Now(),
	})

	return federation.Succeeded(MsgBooked, entity.NewBookingResponse(booking)), nil
}

// step выполняет шаг саги в отдельном спане и учитывает его исход
func (o *Orchestrator) step(ctx context.Context, name metrics.SagaStep, fn func(ctx context.Context) error) (err error) {
	ctx, span := o.tracer.Start(ctx, "booking."+string(name))
	defer func() {
		metrics.RecordSagaStep(name, err)
		tracing.Finish(span, err)
	}()
	return fn(ctx)
}

// compensate возвращает списанные средства. Если зачисление не прошло,
// возврат уходит событием BOOKING_REFUND_PENDING в background-worker.
func (o *Orchestrator) compensate(ctx context.Context, attemptID uuid.UUID, booking *entity.Booking) {
	// возврат должен состояться даже если клиент уже отключился
	ctx = context.WithoutCancel(ctx)
	refundKey := idempotencyKey(attemptID, "refund")

	ctx, span := o.tracer.Start(ctx, "booking.compensate")
	err := o.paymentsClient.AddFunds(ctx, booking.GuestID, booking.TotalCost, refundKey)
	tracing.Finish(span, err)

	if err == nil {
		metrics.Compensations.WithLabelValues("refunded").Inc()
		logger.Info().
			Str("attempt_id", attemptID.String()).
			Float64("amount", booking.TotalCost).
			Msg("Booking failed, funds refunded")
		return
	}

	metrics.Compensations.WithLabelValues("pending").Inc()
	logger.Error().Err(err).
		Str("attempt_id", attemptID.String()).
		Str("guest_id", booking.GuestID.String()).
		Float64("amount", booking.TotalCost).
		Msg("Failed to refund funds, scheduling retry")

	o.publishEvent(ctx, attemptID.String(), entity.BookingEvent{
		EventType:      entity.EventBookingRefundPending,
		AttemptID:      attemptID,
		ListingID:      booking.ListingID,
		GuestID:        booking.GuestID,
		Amount:         booking.TotalCost,
		IdempotencyKey: refundKey,
		Timestamp:      time.Now(),
	})
}

func (o *Orchestrator) fail(span trace.Span, err error) (federation.Result[entity.BookingResponse], error) {
	span.RecordError(err)
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg("Booking failed")
		err = apperror.Wrap(err, apperror.KindInternal, "Failed to create booking")
	}
	return federation.FailedWith[entity.BookingResponse](err), nil
}

// publishEvent ошибки Kafka не прерывают оформление, только логируются
func (o *Orchestrator) publishEvent(ctx context.Context, key string, event entity.BookingEvent) {
	eventData, err := json.Marshal(event)
	if err == nil {
		err = o.kafkaProducer.PublishMessage(ctx, key, eventData)
	}
	if err != nil {
		logger.Error().Err(err).
			Str("event_type", event.EventType).
			Str("attempt_id", event.AttemptID.String()).
			Msg("Failed to publish booking event")
	}
}

func idempotencyKey(attemptID uuid.UUID, movement string) string {
	return fmt.Sprintf("booking:%s:%s", attemptID, movement)
}
