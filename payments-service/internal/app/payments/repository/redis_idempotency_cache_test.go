package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/payments-service/internal/app/payments/entity"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, IdempotencyCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisIdempotencyCache(client, time.Hour)
}

// ===================== Idempotency Cache Tests =====================

func TestIdempotencyCache_Miss(t *testing.T) {
	_, cache := setupCache(t)

	movement, err := cache.Get(context.Background(), "booking:1:debit")

	assert.NoError(t, err)
	assert.Nil(t, movement)
}

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mr, cache := setupCache(t)
	movement := &entity.Movement{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Type:           entity.MovementDebit,
		Amount:         300,
		BalanceAfter:   700,
		IdempotencyKey: "booking:1:debit",
	}

	// Act
	require.NoError(t, cache.Set(ctx, movement))
	cached, err := cache.Get(ctx, "booking:1:debit")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, movement.ID, cached.ID)
	assert.Equal(t, float64(300), cached.Amount)
	assert.Equal(t, time.Hour, mr.TTL("payments:idempotency:booking:1:debit"))
}

func TestIdempotencyCache_Expires(t *testing.T) {
	ctx := context.Background()
	mr, cache := setupCache(t)
	require.NoError(t, cache.Set(ctx, &entity.Movement{IdempotencyKey: "k"}))

	mr.FastForward(2 * time.Hour)

	cached, err := cache.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, cached)
}

func TestIdempotencyCache_CorruptedValue(t *testing.T) {
	mr, cache := setupCache(t)
	require.NoError(t, mr.Set("payments:idempotency:bad", "{not json"))

	_, err := cache.Get(context.Background(), "bad")

	assert.Error(t, err)
}
