package service

import (
	"context"

	"github.com/google/uuid"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
)

// ListingsServiceInterface интерфейс сервиса объявлений для handlers
type ListingsServiceInterface interface {
	GetFeaturedListings(ctx context.Context) ([]entity.Listing, error)
	SearchListings(ctx context.Context, query *entity.SearchListingsQuery) ([]entity.Listing, error)
	GetHostListings(ctx context.Context, identity auth.Identity) ([]entity.Listing, error)
	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	GetListingsForUser(ctx context.Context, hostID uuid.UUID) ([]entity.Listing, error)
	GetAllAmenities(ctx context.Context) ([]entity.Amenity, error)
	GetTotalCost(ctx context.Context, id string, req *entity.CostRequest) (float64, error)
	CreateListing(ctx context.Context, identity auth.Identity, req *entity.CreateListingRequest) (federation.Result[entity.Listing], error)
	UpdateListing(ctx context.Context, identity auth.Identity, id string, req *entity.UpdateListingRequest) (federation.Result[entity.Listing], error)
}
