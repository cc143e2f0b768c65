package http

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"staybnb/pkg/availability"
	"staybnb/pkg/serviceclient"
)

type costResponse struct {
	TotalCost float64 `json:"totalCost"`
}

type listingResponse struct {
	ID     uuid.UUID `json:"id"`
	HostID uuid.UUID `json:"hostId"`
}

// ListingsClient клиент listings-service
type ListingsClient struct {
	client *serviceclient.Client
}

func NewListingsClient(client *serviceclient.Client) *ListingsClient {
	return &ListingsClient{client: client}
}

// GetTotalCost стоимость проживания, неизвестное объявление дает NotFoundError
func (c *ListingsClient) GetTotalCost(ctx context.Context, listingID uuid.UUID, dates availability.DateRange) (float64, error) {
	query := url.Values{
		"checkIn":  {dates.CheckIn.Format(availability.DateLayout)},
		"checkOut": {dates.CheckOut.Format(availability.DateLayout)},
	}

	var resp costResponse
	if err := c.client.Get(ctx, "/listings/"+listingID.String()+"/cost", query, &resp); err != nil {
		return 0, err
	}
	return resp.TotalCost, nil
}

func (c *ListingsClient) GetListingHostID(ctx context.Context, listingID uuid.UUID) (uuid.UUID, error) {
	var resp listingResponse
	if err := c.client.Get(ctx, "/listings/"+listingID.String(), nil, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.HostID, nil
}
