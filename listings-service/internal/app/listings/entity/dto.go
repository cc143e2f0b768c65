package entity

// CreateListingRequest DTO для создания объявления, Amenities - идентификаторы из справочника
type CreateListingRequest struct {
	Title          string       `json:"title" validate:"required,min=3,max=200"`
	Description    string       `json:"description" validate:"required"`
	PhotoThumbnail string       `json:"photoThumbnail" validate:"omitempty,url"`
	NumOfBeds      int          `json:"numOfBeds" validate:"gte=1"`
	CostPerNight   float64      `json:"costPerNight" validate:"gt=0"`
	LocationType   LocationType `json:"locationType" validate:"required,oneof=SPACESHIP HOUSE CAMPSITE APARTMENT ROOM"`
	Amenities      []string     `json:"amenities" validate:"dive,required"`
}

// UpdateListingRequest частичное обновление, nil поля не меняются
type UpdateListingRequest struct {
	Title          *string       `json:"title" validate:"omitempty,min=3,max=200"`
	Description    *string       `json:"description"`
	PhotoThumbnail *string       `json:"photoThumbnail" validate:"omitempty,url"`
	NumOfBeds      *int          `json:"numOfBeds" validate:"omitempty,gte=1"`
	CostPerNight   *float64      `json:"costPerNight" validate:"omitempty,gt=0"`
	LocationType   *LocationType `json:"locationType" validate:"omitempty,oneof=SPACESHIP HOUSE CAMPSITE APARTMENT ROOM"`
	Amenities      []string      `json:"amenities" validate:"omitempty,dive,required"`
}

// SearchListingsQuery параметры GET /listings/search
type SearchListingsQuery struct {
	NumOfBeds int    `form:"numOfBeds" validate:"gte=0"`
	CheckIn   string `form:"checkIn" validate:"required"`
	CheckOut  string `form:"checkOut" validate:"required"`
	Page      int    `form:"page" validate:"gte=0"`
	Limit     int    `form:"limit" validate:"gte=0,lte=100"`
	SortBy    SortBy `form:"sortBy" validate:"omitempty,oneof=COST_ASC COST_DESC"`
}

// CostRequest параметры GET /listings/:id/cost
type CostRequest struct {
	CheckIn  string `form:"checkIn" validate:"required"`
	CheckOut string `form:"checkOut" validate:"required"`
}

type CostResponse struct {
	TotalCost float64 `json:"totalCost"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
