package http

import (
	"context"
	"net/url"

	"staybnb/pkg/serviceclient"
)

type idResponse struct {
	ID string `json:"id"`
}

// BookingsClient клиент bookings-service
type BookingsClient struct {
	client *serviceclient.Client
}

func NewBookingsClient(client *serviceclient.Client) *BookingsClient {
	return &BookingsClient{client: client}
}

func (c *BookingsClient) GetListingIDForBooking(ctx context.Context, bookingID string) (string, error) {
	return c.lookup(ctx, bookingID, "listing-id")
}

func (c *BookingsClient) GetGuestIDForBooking(ctx context.Context, bookingID string) (string, error) {
	return c.lookup(ctx, bookingID, "guest-id")
}

func (c *BookingsClient) lookup(ctx context.Context, bookingID, field string) (string, error) {
	var resp idResponse
	if err := c.client.Get(ctx, "/bookings/"+url.PathEscape(bookingID)+"/"+field, nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
