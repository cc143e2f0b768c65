package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"staybnb/payments-service/internal/app/payments/entity"
	"staybnb/pkg/metrics"
)

const idempotencyPrefix = "payments:idempotency:"

type redisIdempotencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyCache(client *redis.Client, ttl time.Duration) IdempotencyCache {
	return &redisIdempotencyCache{client: client, ttl: ttl}
}

// Get возвращает (nil, nil) если ключа нет в кеше
func (c *redisIdempotencyCache) Get(ctx context.Context, key string) (*entity.Movement, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss(serviceName, idempotencyPrefix)
		return nil, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var movement entity.Movement
	if err := json.Unmarshal(data, &movement); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached movement: %w", err)
	}

	metrics.RecordCacheHit(serviceName, idempotencyPrefix)
	return &movement, nil
}

func (c *redisIdempotencyCache) Set(ctx context.Context, movement *entity.Movement) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("failed to marshal movement: %w", err)
	}

	if err := c.client.Set(ctx, idempotencyPrefix+movement.IdempotencyKey, data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to cache idempotency key: %w", err)
	}
	return nil
}
