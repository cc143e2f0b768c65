package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/bookings-service/internal/app/bookings/infrastructure"
	"staybnb/bookings-service/internal/app/bookings/repository"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
)

const (
	MsgHostsOnly         = "Only hosts have access to listing bookings"
	MsgTripsGuestsOnly   = "Only guests have access to trips"
	MsgListingNotOwned   = "Listing does not belong to host"
	MsgBookingNotFound   = "Booking not found"
	MsgBookingNotAllowed = "Booking does not belong to user"
)

// Типы отзывов, которые прикрепляются к бронированию
const (
	ReviewTargetListing = "LISTING"
	ReviewTargetHost    = "HOST"
	ReviewTargetGuest   = "GUEST"
)

// BookingsService чтение бронирований и проверки доступности
type BookingsService struct {
	bookingRepo    repository.BookingRepository
	listingsClient infrastructure.ListingsServiceClient
	reviewsClient  infrastructure.ReviewsServiceClient
}

func NewBookingsService(
	bookingRepo repository.BookingRepository,
	listingsClient infrastructure.ListingsServiceClient,
	reviewsClient infrastructure.ReviewsServiceClient,
) *BookingsService {
	return &BookingsService{
		bookingRepo:    bookingRepo,
		listingsClient: listingsClient,
		reviewsClient:  reviewsClient,
	}
}

// GetBooking бронирование видят гость, который его оформил, и хозяин объявления
func (s *BookingsService) GetBooking(ctx context.Context, identity auth.Identity, id string) (*entity.BookingResponse, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	switch identity.Role {
	case auth.RoleGuest:
		if booking.GuestID.String() != identity.UserID {
			return nil, apperror.Forbidden(MsgBookingNotAllowed)
		}
	case auth.RoleHost:
		if err := s.requireListingOwner(ctx, identity, booking.ListingID); err != nil {
			if errors.Is(err, apperror.ErrForbidden) {
				return nil, apperror.Forbidden(MsgBookingNotAllowed)
			}
			return nil, err
		}
	}

	response := entity.NewBookingResponse(booking)
	s.attachReviews(ctx, response, booking.ID)
	return response, nil
}

// attachReviews отзывы запрашиваются параллельно; недоступный reviews-service
// не ломает ответ, отзывы просто не попадают в него
func (s *BookingsService) attachReviews(ctx context.Context, response *entity.BookingResponse, bookingID uuid.UUID) {
	var location, host, guest *entity.Review

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(targetType string, dst **entity.Review) {
		g.Go(func() error {
			review, err := s.reviewsClient.GetReviewForBooking(gctx, targetType, bookingID)
			if err != nil {
				return err
			}
			*dst = review
			return nil
		})
	}
	fetch(ReviewTargetListing, &location)
	fetch(ReviewTargetHost, &host)
	fetch(ReviewTargetGuest, &guest)

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Str("booking_id", bookingID.String()).Msg("Failed to load booking reviews")
		return
	}
	response.LocationReview = location
	response.HostReview = host
	response.GuestReview = guest
}

func (s *BookingsService) GetBookingsForListing(ctx context.Context, identity auth.Identity, listingID string, status entity.BookingStatus) ([]entity.BookingResponse, error) {
	if err := auth.Require(identity, MsgHostsOnly, auth.RoleHost); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, apperror.NotFound("Listing not found")
	}
	if err := s.requireListingOwner(ctx, identity, id); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByListing(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing bookings: %w", err)
	}
	return entity.NewBookingResponses(bookings), nil
}

func (s *BookingsService) requireListingOwner(ctx context.Context, identity auth.Identity, listingID uuid.UUID) error {
	hostID, err := s.listingsClient.GetListingHostID(ctx, listingID)
	if err != nil {
		return err
	}
	if hostID.String() != identity.UserID {
		return apperror.Forbidden(MsgListingNotOwned)
	}
	return nil
}

// GetGuestBookings поездки гостя, status == "" означает все
func (s *BookingsService) GetGuestBookings(ctx context.Context, identity auth.Identity, status entity.BookingStatus) ([]entity.BookingResponse, error) {
	if err := auth.Require(identity, MsgTripsGuestsOnly, auth.RoleGuest); err != nil {
		return nil, err
	}
	guestID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return nil, apperror.Authentication()
	}

	bookings, err := s.bookingRepo.GetByGuest(ctx, guestID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest bookings: %w", err)
	}
	return entity.NewBookingResponses(bookings), nil
}

// GetCurrentGuestBooking текущая поездка пока не вычисляется
func (s *BookingsService) GetCurrentGuestBooking(_ context.Context, identity auth.Identity) (*entity.BookingResponse, error) {
	if err := auth.Require(identity, MsgTripsGuestsOnly, auth.RoleGuest); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *BookingsService) IsListingAvailable(ctx context.Context, listingID string, query *entity.DatesQuery) (bool, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return false, apperror.InvalidState("Invalid listing ID")
	}

	dates, err := availability.ParseDateRange(query.CheckIn, query.CheckOut)
	if err != nil {
		return false, err
	}
	if err := dates.Validate(); err != nil {
		return false, err
	}

	existing, err := s.bookingRepo.ActiveRanges(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return availability.IsAvailable(dates, existing), nil
}

// CurrentlyBookedDates занятые диапазоны, отсортированные и без пересечений
func (s *BookingsService) CurrentlyBookedDates(ctx context.Context, listingID string) ([]availability.DateRange, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, apperror.InvalidState("Invalid listing ID")
	}

	existing, err := s.bookingRepo.ActiveRanges(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked dates: %w", err)
	}
	return availability.BookedRanges(existing), nil
}

func (s *BookingsService) NumberOfUpcomingBookings(ctx context.Context, listingID string) (int64, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return 0, apperror.InvalidState("Invalid listing ID")
	}

	count, err := s.bookingRepo.CountByListing(ctx, id, entity.BookingStatusUpcoming)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming bookings: %w", err)
	}
	return count, nil
}

func (s *BookingsService) GetListingIDForBooking(ctx context.Context, bookingID string) (uuid.UUID, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return uuid.Nil, err
	}
	return booking.ListingID, nil
}

func (s *BookingsService) GetGuestIDForBooking(ctx context.Context, bookingID string) (uuid.UUID, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return uuid.Nil, err
	}
	return booking.GuestID, nil
}

func (s *BookingsService) getBooking(ctx context.Context, id string) (*entity.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound(MsgBookingNotFound)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.NotFound(MsgBookingNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// RegisterEntities регистрирует тип Booking в таблице разрешения ссылок
func (s *BookingsService) RegisterEntities(resolver *federation.Resolver) {
	resolver.Register(federation.TypeBooking, federation.Fetcher(s.findBooking))
}

// findBooking пара (nil, nil) означает, что бронирования нет
func (s *BookingsService) findBooking(ctx context.Context, key string) (*entity.BookingResponse, error) {
	booking, err := s.getBooking(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entity.NewBookingResponse(booking), nil
}
