package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
	"staybnb/pkg/tracing"
	"staybnb/reviews-service/internal/app/reviews/entity"
	"staybnb/reviews-service/internal/app/reviews/infrastructure"
	"staybnb/reviews-service/internal/app/reviews/repository"
)

const (
	MsgHostAndLocationReviewed = "Successfully submitted review for host and location"
	MsgGuestReviewed           = "Successfully submitted review for guest"
	MsgGuestsOnly              = "Only guests can review hosts and locations"
	MsgHostsOnly               = "Only hosts can review guests"
	MsgBookingNotOwned         = "Booking does not belong to user"
	MsgAlreadyReviewed         = "Review already submitted for this booking"
	MsgReviewNotFound          = "Review not found"
)

// ReviewService отзывы по бронированиям и рейтинг хозяев.
// Связь отзыва с бронированием берется из bookings-service, хозяин объявления из listings-service.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	bookingsClient infrastructure.BookingsServiceClient
	listingsClient infrastructure.ListingsServiceClient
	kafkaProducer  infrastructure.MessagePublisher
	tracer         trace.Tracer
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingsClient infrastructure.BookingsServiceClient,
	listingsClient infrastructure.ListingsServiceClient,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		bookingsClient: bookingsClient,
		listingsClient: listingsClient,
		kafkaProducer:  kafkaProducer,
		tracer:         tracing.Tracer("staybnb/reviews-service"),
	}
}

// SubmitHostAndLocationReviews гость оценивает объявление и хозяина по своему бронированию.
// Оба отзыва сохраняются вместе: если отзыв о хозяине не записался,
// уже созданный отзыв об объявлении удаляется.
func (s *ReviewService) SubmitHostAndLocationReviews(
	ctx context.Context,
	identity auth.Identity,
	bookingID string,
	req *entity.SubmitHostAndLocationRequest,
) (federation.Result[entity.HostAndLocationPayload], error) {
	if err := auth.Require(identity, MsgGuestsOnly, auth.RoleGuest); err != nil {
		return federation.Result[entity.HostAndLocationPayload]{}, err
	}

	ctx, span := s.tracer.Start(ctx, "review.submit_host_and_location")
	span.SetAttributes(attribute.String("booking.id", bookingID))
	defer span.End()

	fail := func(err error) (federation.Result[entity.HostAndLocationPayload], error) {
		return federation.FailedWith[entity.HostAndLocationPayload](s.failure(span, err)), nil
	}

	guestID, err := s.bookingsClient.GetGuestIDForBooking(ctx, bookingID)
	if err != nil {
		return fail(err)
	}
	if guestID != identity.UserID {
		return fail(apperror.Forbidden(MsgBookingNotOwned))
	}

	listingID, err := s.bookingsClient.GetListingIDForBooking(ctx, bookingID)
	if err != nil {
		return fail(err)
	}

	location := &entity.Review{
		BookingID:  bookingID,
		TargetType: entity.TargetListing,
		TargetID:   listingID,
		AuthorID:   identity.UserID,
		Text:       req.LocationReview.Text,
		Rating:     req.LocationReview.Rating,
	}
	if err := s.create(ctx, location); err != nil {
		return fail(err)
	}

	hostID, err := s.listingsClient.GetListingHostID(ctx, listingID)
	if err != nil {
		s.rollback(ctx, location)
		return fail(err)
	}

	host := &entity.Review{
		BookingID:  bookingID,
		TargetType: entity.TargetHost,
		TargetID:   hostID,
		AuthorID:   identity.UserID,
		Text:       req.HostReview.Text,
		Rating:     req.HostReview.Rating,
	}
	if err := s.create(ctx, host); err != nil {
		s.rollback(ctx, location)
		return fail(err)
	}

	s.reviewCreated(ctx, location)
	s.reviewCreated(ctx, host)

	locationResponse, err := NewReviewResponse(location)
	if err != nil {
		return fail(err)
	}
	hostResponse, err := NewReviewResponse(host)
	if err != nil {
		return fail(err)
	}

	return federation.Succeeded(MsgHostAndLocationReviewed, &entity.HostAndLocationPayload{
		HostReview:     hostResponse,
		LocationReview: locationResponse,
	}), nil
}

// SubmitGuestReview хозяин оценивает гостя по бронированию своего объявления
func (s *ReviewService) SubmitGuestReview(
	ctx context.Context,
	identity auth.Identity,
	bookingID string,
	req *entity.SubmitGuestReviewRequest,
) (federation.Result[entity.GuestReviewPayload], error) {
	if err := auth.Require(identity, MsgHostsOnly, auth.RoleHost); err != nil {
		return federation.Result[entity.GuestReviewPayload]{}, err
	}

	ctx, span := s.tracer.Start(ctx, "review.submit_guest")
	span.SetAttributes(attribute.String("booking.id", bookingID))
	defer span.End()

	fail := func(err error) (federation.Result[entity.GuestReviewPayload], error) {
		return federation.FailedWith[entity.GuestReviewPayload](s.failure(span, err)), nil
	}

	listingID, err := s.bookingsClient.GetListingIDForBooking(ctx, bookingID)
	if err != nil {
		return fail(err)
	}
	hostID, err := s.listingsClient.GetListingHostID(ctx, listingID)
	if err != nil {
		return fail(err)
	}
	if hostID != identity.UserID {
		return fail(apperror.Forbidden(MsgBookingNotOwned))
	}

	guestID, err := s.bookingsClient.GetGuestIDForBooking(ctx, bookingID)
	if err != nil {
		return fail(err)
	}

	review := &entity.Review{
		BookingID:  bookingID,
		TargetType: entity.TargetGuest,
		TargetID:   guestID,
		AuthorID:   identity.UserID,
		Text:       req.GuestReview.Text,
		Rating:     req.GuestReview.Rating,
	}
	if err := s.create(ctx, review); err != nil {
		return fail(err)
	}
	s.reviewCreated(ctx, review)

	response, err := NewReviewResponse(review)
	if err != nil {
		return fail(err)
	}
	return federation.Succeeded(MsgGuestReviewed, &entity.GuestReviewPayload{GuestReview: response}), nil
}

// GetReview получает отзыв по ID
func (s *ReviewService) GetReview(ctx context.Context, id string) (*entity.ReviewResponse, error) {
	review, err := s.findReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperror.NotFound(MsgReviewNotFound)
	}
	return review, nil
}

// GetReviewForBooking отзыв указанного типа по бронированию, nil если его еще нет
func (s *ReviewService) GetReviewForBooking(ctx context.Context, bookingID string, targetType entity.TargetType) (*entity.ReviewResponse, error) {
	if !targetType.Valid() {
		return nil, apperror.InvalidState("Unknown review target type: " + string(targetType))
	}

	review, err := s.reviewRepo.GetForBooking(ctx, bookingID, targetType)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review for booking: %w", err)
	}
	return NewReviewResponse(review)
}

// GetOverallRatingForHost средняя оценка по отзывам о хозяине
func (s *ReviewService) GetOverallRatingForHost(ctx context.Context, hostID string) (*float64, error) {
	rating, err := s.reviewRepo.AverageRating(ctx, entity.TargetHost, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host rating: %w", err)
	}
	return rating, nil
}

// GetHostRating поля Host, которые добавляет reviews-service
func (s *ReviewService) GetHostRating(ctx context.Context, hostID string) (*entity.HostRating, error) {
	rating, err := s.GetOverallRatingForHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	return &entity.HostRating{
		Typename:      federation.TypeHost,
		ID:            hostID,
		OverallRating: rating,
	}, nil
}

// RegisterEntities регистрирует Review и расширение Host
func (s *ReviewService) RegisterEntities(resolver *federation.Resolver) {
	resolver.
		Register(federation.TypeReview, federation.Fetcher(s.findReview)).
		Register(federation.TypeHost, federation.Fetcher(s.GetHostRating))
}

func (s *ReviewService) findReview(ctx context.Context, id string) (*entity.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return NewReviewResponse(review)
}

// create сохраняет отзыв, повторный отзыв того же типа по бронированию отклоняется
func (s *ReviewService) create(ctx context.Context, review *entity.Review) error {
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return apperror.InvalidState(MsgAlreadyReviewed)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// rollback удаляет отзыв, сохраненный до сбоя второй половины пары
func (s *ReviewService) rollback(ctx context.Context, review *entity.Review) {
	ctx = context.WithoutCancel(ctx)
	if err := s.reviewRepo.Delete(ctx, review.ID.Hex()); err != nil {
		logger.Error().Err(err).
			Str("review_id", review.ID.Hex()).
			Str("booking_id", review.BookingID).
			Msg("Failed to roll back location review")
	}
}

func (s *ReviewService) failure(span trace.Span, err error) error {
	span.RecordError(err)
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg("Review submission failed")
		return apperror.Wrap(err, apperror.KindInternal, "Failed to submit review")
	}
	return err
}

// reviewCreated учитывает отзыв в метриках и отправляет REVIEW_CREATED.
// Ошибки Kafka не отменяют отзыв, только логируются.
func (s *ReviewService) reviewCreated(ctx context.Context, review *entity.Review) {
	metrics.ReviewsCreated.WithLabelValues(string(review.TargetType)).Inc()
	metrics.ReviewsRating.WithLabelValues(string(review.TargetType)).Observe(float64(review.Rating))

	event := entity.ReviewEvent{
		EventType:  entity.EventReviewCreated,
		ReviewID:   review.ID.Hex(),
		BookingID:  review.BookingID,
		TargetType: review.TargetType,
		TargetID:   review.TargetID,
		AuthorID:   review.AuthorID,
		Rating:     review.Rating,
		Timestamp:  time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err == nil {
		err = s.kafkaProducer.PublishMessage(ctx, review.BookingID, eventData)
	}
	if err != nil {
		logger.Error().Err(err).
			Str("review_id", event.ReviewID).
			Msg("Failed to publish review created event")
	}
}
