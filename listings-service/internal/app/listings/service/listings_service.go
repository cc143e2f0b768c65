package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/listings-service/internal/app/listings/infrastructure"
	"staybnb/listings-service/internal/app/listings/repository"
	"staybnb/listings-service/internal/app/listings/util"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

const featuredLimit = 3

const (
	msgHostListingsForbidden = "Only hosts have access to listings."
	msgCreateForbidden       = "Only hosts can create new listings"
	msgUpdateForbidden       = "Only the host of this listing can update it"
	msgListingNotFound       = "Listing not found"
	msgUnknownAmenity        = "One or more amenities do not exist"
)

// ListingsService владелец объявлений: чтение, поиск со свободными датами, изменения
type ListingsService struct {
	listingRepo repository.ListingRepository
	cache       util.ListingCache
	publisher   util.MessagePublisher
	bookings    infrastructure.BookingsServiceClient
	cacheTTL    time.Duration
}

func NewListingsService(
	listingRepo repository.ListingRepository,
	cache util.ListingCache,
	publisher util.MessagePublisher,
	bookings infrastructure.BookingsServiceClient,
	cacheTTL time.Duration,
) *ListingsService {
	return &ListingsService{
		listingRepo: listingRepo,
		cache:       cache,
		publisher:   publisher,
		bookings:    bookings,
		cacheTTL:    cacheTTL,
	}
}

// GetFeaturedListings до трех избранных объявлений, кешируется в Redis
func (s *ListingsService) GetFeaturedListings(ctx context.Context) ([]entity.Listing, error) {
	if cached, err := s.cache.GetFeatured(ctx); err == nil && cached != nil {
		return cached, nil
	}

	listings, err := s.listingRepo.GetFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured listings: %w", err)
	}

	if err := s.cache.SetFeatured(ctx, listings, s.cacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache featured listings")
	}
	return listings, nil
}

// SearchListings выбирает страницу кандидатов и оставляет свободных на даты.
// Порядок кандидатов сохраняется.
func (s *ListingsService) SearchListings(ctx context.Context, query *entity.SearchListingsQuery) ([]entity.Listing, error) {
	dates, err := availability.ParseDateRange(query.CheckIn, query.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := dates.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.listingRepo.List(ctx, entity.ListingFilter{
		NumOfBeds: query.NumOfBeds,
		Page:      query.Page,
		Limit:     query.Limit,
		SortBy:    query.SortBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	metrics.SearchFanout.Observe(float64(len(candidates)))

	available, err := availability.FilterAvailable(ctx, candidates, func(ctx context.Context, listing entity.Listing) (bool, error) {
		return s.bookings.IsListingAvailable(ctx, listing.ID, dates)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("available", len(available)).
		Msg("Search completed")

	return available, nil
}

// GetHostListings объявления вызывающего хозяина
func (s *ListingsService) GetHostListings(ctx context.Context, identity auth.Identity) ([]entity.Listing, error) {
	if err := auth.Require(identity, msgHostListingsForbidden, auth.RoleHost); err != nil {
		return nil, err
	}

	hostID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return nil, apperror.Authentication()
	}
	return s.GetListingsForUser(ctx, hostID)
}

func (s *ListingsService) GetListingsForUser(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error) {
	listings, err := s.listingRepo.GetByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host listings: %w", err)
	}
	return listings, nil
}

func (s *ListingsService) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperror.NotFound(msgListingNotFound)
	}
	return listing, nil
}

// GetAllAmenities справочник удобств, кешируется в Redis
func (s *ListingsService) GetAllAmenities(ctx context.Context) ([]entity.Amenity, error) {
	if cached, err := s.cache.GetAmenities(ctx); err == nil && len(cached) > 0 {
		return cached, nil
	}

	amenities, err := s.listingRepo.GetAmenities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get amenities: %w", err)
	}

	if err := s.cache.SetAmenities(ctx, amenities, s.cacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache amenities")
	}
	return amenities, nil
}

// GetTotalCost стоимость проживания: ночи x цена за ночь
func (s *ListingsService) GetTotalCost(ctx context.Context, id string, req *entity.CostRequest) (float64, error) {
	dates, err := availability.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return 0, err
	}
	if err := dates.Validate(); err != nil {
		return 0, err
	}

	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return 0, err
	}

	return float64(dates.Nights()) * listing.CostPerNight, nil
}

// CreateListing создает объявление от имени хозяина.
// Аноним получает ошибку, остальные отказы возвращаются конвертом.
func (s *ListingsService) CreateListing(ctx context.Context, identity auth.Identity, req *entity.CreateListingRequest) (federation.Result[entity.Listing], error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return federation.Result[entity.Listing]{}, err
	}
	if identity.Role != auth.RoleHost {
		return federation.Failed[entity.Listing](http.StatusBadRequest, msgCreateForbidden), nil
	}

	hostID, err := uuid.Parse(identity.UserID)
	if err != nil {
		return federation.Result[entity.Listing]{}, apperror.Authentication()
	}

	listing := &entity.Listing{
		ID:             uuid.New(),
		HostID:         hostID,
		Title:          req.Title,
		Description:    req.Description,
		PhotoThumbnail: req.PhotoThumbnail,
		NumOfBeds:      req.NumOfBeds,
		CostPerNight:   req.CostPerNight,
		LocationType:   req.LocationType,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.listingRepo.Create(ctx, listing, req.Amenities); err != nil {
		return s.mutationFailed(err, "Failed to create listing"), nil
	}

	metrics.ListingsCreated.Inc()
	s.publishEvent(ctx, entity.EventListingCreated, listing)

	logger.Info().
		Str("listing_id", listing.ID.String()).
		Str("host_id", hostID.String()).
		Msg("Listing created")

	return federation.Succeeded("Listing successfully created!", listing), nil
}

// UpdateListing меняет объявление. Изменять может только его хозяин.
func (s *ListingsService) UpdateListing(ctx context.Context, identity auth.Identity, id string, req *entity.UpdateListingRequest) (federation.Result[entity.Listing], error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return federation.Result[entity.Listing]{}, err
	}

	if identity.Role != auth.RoleHost {
		return federation.FailedWith[entity.Listing](apperror.Forbidden(msgUpdateForbidden)), nil
	}

	listing, err := s.findListing(ctx, id)
	if err != nil {
		return s.mutationFailed(err, "Failed to update listing"), nil
	}
	if listing == nil {
		return federation.FailedWith[entity.Listing](apperror.NotFound(msgListingNotFound)), nil
	}
	if listing.HostID.String() != identity.UserID {
		return federation.FailedWith[entity.Listing](apperror.Forbidden(msgUpdateForbidden)), nil
	}

	applyUpdate(listing, req)

	if err := s.listingRepo.Update(ctx, listing, req.Amenities); err != nil {
		return s.mutationFailed(err, "Failed to update listing"), nil
	}

	if listing.IsFeatured {
		if err := s.cache.DeleteFeatured(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate featured listings cache")
		}
	}
	s.publishEvent(ctx, entity.EventListingUpdated, listing)

	return federation.Succeeded("Listing successfully updated!", listing), nil
}

// RegisterEntities регистрирует тип Listing в таблице разрешения ссылок
func (s *ListingsService) RegisterEntities(resolver *federation.Resolver) {
	resolver.Register(federation.TypeListing, federation.Fetcher(s.findListing))
}

// findListing возвращает (nil, nil) если объявления нет
func (s *ListingsService) findListing(ctx context.Context, id string) (*entity.Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (s *ListingsService) mutationFailed(err error, msg string) federation.Result[entity.Listing] {
	switch {
	case errors.Is(err, repository.ErrUnknownAmenity):
		return federation.Failed[entity.Listing](http.StatusBadRequest, msgUnknownAmenity)
	case errors.Is(err, repository.ErrNotFound):
		return federation.FailedWith[entity.Listing](apperror.NotFound(msgListingNotFound))
	default:
		logger.Error().Err(err).Msg(msg)
		return federation.Failed[entity.Listing](http.StatusBadRequest, msg)
	}
}

func applyUpdate(listing *entity.Listing, req *entity.UpdateListingRequest) {
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.PhotoThumbnail != nil {
		listing.PhotoThumbnail = *req.PhotoThumbnail
	}
	if req.NumOfBeds != nil {
		listing.NumOfBeds = *req.NumOfBeds
	}
	if req.CostPerNight != nil {
		listing.CostPerNight = *req.CostPerNight
	}
	if req.LocationType != nil {
		listing.LocationType = *req.LocationType
	}
}

// publishEvent ошибки Kafka не отменяют уже сохраненное изменение
func (s *ListingsService) publishEvent(ctx context.Context, eventType string, listing *entity.Listing) {
	event := entity.ListingEvent{
		EventType:    eventType,
		ListingID:    listing.ID,
		HostID:       listing.HostID,
		CostPerNight: listing.CostPerNight,
		Timestamp:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal listing event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, listing.ID.String(), payload); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("listing_id", listing.ID.String()).
			Msg("Failed to publish listing event")
	}
}
