package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/pkg/metrics"
)

const (
	serviceName = "listings-service"

	amenitiesCacheKey = "listings:amenities"
	featuredCacheKey  = "listings:featured"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) GetAmenities(ctx context.Context) ([]entity.Amenity, error) {
	var amenities []entity.Amenity
	found, err := r.get(ctx, amenitiesCacheKey, &amenities)
	if err != nil || !found {
		return nil, err
	}
	return amenities, nil
}

func (r *RedisClient) SetAmenities(ctx context.Context, amenities []entity.Amenity, ttl time.Duration) error {
	return r.set(ctx, amenitiesCacheKey, amenities, ttl)
}

func (r *RedisClient) GetFeatured(ctx context.Context) ([]entity.Listing, error) {
	var listings []entity.Listing
	found, err := r.get(ctx, featuredCacheKey, &listings)
	if err != nil || !found {
		return nil, err
	}
	return listings, nil
}

func (r *RedisClient) SetFeatured(ctx context.Context, listings []entity.Listing, ttl time.Duration) error {
	return r.set(ctx, featuredCacheKey, listings, ttl)
}

func (r *RedisClient) DeleteFeatured(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, featuredCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete featured listings from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) get(ctx context.Context, key string, out any) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, key)
			return false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	metrics.RecordCacheHit(serviceName, key)
	return true, nil
}

func (r *RedisClient) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}
