package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"staybnb/pkg/metrics"
)

const processedKeyPrefix = "worker:refund:"

type processedEventRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProcessedEventRepository отметки живут ttl, дальше повтор отсекает ключ идемпотентности payments-service
func NewProcessedEventRepository(client *redis.Client, ttl time.Duration) ProcessedEventRepository {
	return &processedEventRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *processedEventRepository) IsProcessed(ctx context.Context, key string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	defer timer.ObserveDuration()

	exists, err := r.client.Exists(ctx, processedKeyPrefix+key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check processed event: %w", err)
	}

	if exists > 0 {
		metrics.RecordCacheHit(serviceName, processedKeyPrefix)
		return true, nil
	}
	metrics.RecordCacheMiss(serviceName, processedKeyPrefix)
	return false, nil
}

func (r *processedEventRepository) MarkProcessed(ctx context.Context, key string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, processedKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}
