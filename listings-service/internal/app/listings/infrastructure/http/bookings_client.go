package http

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"staybnb/pkg/availability"
	"staybnb/pkg/serviceclient"
)

type availabilityResponse struct {
	Available bool `json:"available"`
}

// BookingsClient клиент bookings-service
type BookingsClient struct {
	client *serviceclient.Client
}

func NewBookingsClient(client *serviceclient.Client) *BookingsClient {
	return &BookingsClient{client: client}
}

// IsListingAvailable спрашивает, свободно ли объявление на даты
func (c *BookingsClient) IsListingAvailable(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (bool, error) {
	query := url.Values{
		"checkIn":  {dates.CheckIn.Format(availability.DateLayout)},
		"checkOut": {dates.CheckOut.Format(availability.DateLayout)},
	}

	var resp availabilityResponse
	if err := c.client.Get(ctx, "/listings/"+listingID.String()+"/availability", query, &resp); err != nil {
		return false, err
	}
	return resp.Available, nil
}
