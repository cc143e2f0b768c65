package entity

import (
	"time"

	"github.com/google/uuid"

	"staybnb/pkg/federation"
)

// LocationType тип жилья
type LocationType string

const (
	LocationSpaceship LocationType = "SPACESHIP"
	LocationHouse     LocationType = "HOUSE"
	LocationCampsite  LocationType = "CAMPSITE"
	LocationApartment LocationType = "APARTMENT"
	LocationRoom      LocationType = "ROOM"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationSpaceship, LocationHouse, LocationCampsite, LocationApartment, LocationRoom:
		return true
	}
	return false
}

// Amenity удобство из справочника
type Amenity struct {
	ID       string `json:"id" db:"id"`
	Category string `json:"category" db:"category"`
	Name     string `json:"name" db:"name"`
}

// Listing объявление о сдаче жилья. Host отдается ссылкой,
// профиль хозяина разрешает identity-service.
type Listing struct {
	Typename       string                `json:"__typename"`
	ID             uuid.UUID             `json:"id" db:"id"`
	HostID         uuid.UUID             `json:"hostId" db:"host_id"`
	Host           federation.EntityStub `json:"host"`
	Title          string                `json:"title" db:"title"`
	Description    string                `json:"description" db:"description"`
	PhotoThumbnail string                `json:"photoThumbnail" db:"photo_thumbnail"`
	NumOfBeds      int                   `json:"numOfBeds" db:"num_of_beds"`
	CostPerNight   float64               `json:"costPerNight" db:"cost_per_night"`
	LocationType   LocationType          `json:"locationType" db:"location_type"`
	IsFeatured     bool                  `json:"isFeatured" db:"is_featured"`
	Amenities      []Amenity             `json:"amenities"`
	CreatedAt      time.Time             `json:"createdAt" db:"created_at"`
}

// Link заполняет имя типа и ссылку на хозяина
func (l *Listing) Link() {
	l.Typename = federation.TypeListing
	l.Host = federation.HostRef(l.HostID.String())
}

// SortBy порядок выдачи поиска
type SortBy string

const (
	SortCostAsc  SortBy = "COST_ASC"
	SortCostDesc SortBy = "COST_DESC"
)

// ListingFilter параметры выборки кандидатов для поиска
type ListingFilter struct {
	NumOfBeds int
	Page      int
	Limit     int
	SortBy    SortBy
}

// Типы событий в топике listing_events
const (
	EventListingCreated = "LISTING_CREATED"
	EventListingUpdated = "LISTING_UPDATED"
)

// ListingEvent событие об изменении объявления
type ListingEvent struct {
	EventType    string    `json:"event_type"`
	ListingID    uuid.UUID `json:"listing_id"`
	HostID       uuid.UUID `json:"host_id"`
	CostPerNight float64   `json:"cost_per_night"`
	Timestamp    time.Time `json:"timestamp"`
}
