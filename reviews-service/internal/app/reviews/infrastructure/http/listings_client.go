package http

import (
	"context"
	"net/url"

	"staybnb/pkg/serviceclient"
)

type listingResponse struct {
	ID     string `json:"id"`
	HostID string `json:"hostId"`
}

// ListingsClient клиент listings-service
type ListingsClient struct {
	client *serviceclient.Client
}

func NewListingsClient(client *serviceclient.Client) *ListingsClient {
	return &ListingsClient{client: client}
}

func (c *ListingsClient) GetListingHostID(ctx context.Context, listingID string) (string, error) {
	var resp listingResponse
	if err := c.client.Get(ctx, "/listings/"+url.PathEscape(listingID), nil, &resp); err != nil {
		return "", err
	}
	return resp.HostID, nil
}
