package http

import (
	"context"

	"github.com/google/uuid"

	"staybnb/pkg/serviceclient"
)

type fundsRequest struct {
	UserID         uuid.UUID `json:"userId"`
	Amount         float64   `json:"amount"`
	IdempotencyKey string    `json:"idempotencyKey"`
}

// PaymentsClient клиент payments-service
type PaymentsClient struct {
	client *serviceclient.Client
}

func NewPaymentsClient(client *serviceclient.Client) *PaymentsClient {
	return &PaymentsClient{client: client}
}

// SubtractFunds нехватка средств приходит как InsufficientFundsError
func (c *PaymentsClient) SubtractFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	return c.client.Post(ctx, "/payments/subtract", fundsRequest{
		UserID:         userID,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil)
}

func (c *PaymentsClient) AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	return c.client.Post(ctx, "/payments/add", fundsRequest{
		UserID:         userID,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil)
}
