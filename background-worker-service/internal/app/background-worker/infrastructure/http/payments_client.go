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

// PaymentsClient зачисления в кошелек гостя
type PaymentsClient struct {
	client *serviceclient.Client
}

func NewPaymentsClient(client *serviceclient.Client) *PaymentsClient {
	return &PaymentsClient{client: client}
}

// AddFunds повтор с тем же ключом payments-service не зачисляет второй раз
func (c *PaymentsClient) AddFunds(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) error {
	return c.client.Post(ctx, "/payments/add", fundsRequest{
		UserID:         userID,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil)
}
