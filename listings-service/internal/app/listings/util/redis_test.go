package util

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybnb/listings-service/internal/app/listings/entity"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisClient(client)
}

// ===================== Amenities Cache Tests =====================

func TestRedisClient_Amenities_MissReturnsNil(t *testing.T) {
	_, cache := setupRedis(t)

	amenities, err := cache.GetAmenities(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, amenities)
}

func TestRedisClient_Amenities_RoundTripWithTTL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mr, cache := setupRedis(t)
	amenities := []entity.Amenity{
		{ID: "am-3", Category: "Space Survival", Name: "Oxygen"},
		{ID: "am-2", Category: "Accommodation Details", Name: "Towel"},
	}

	// Act
	require.NoError(t, cache.SetAmenities(ctx, amenities, time.Hour))
	cached, err := cache.GetAmenities(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, amenities, cached)
	assert.Equal(t, time.Hour, mr.TTL("listings:amenities"))

	mr.FastForward(2 * time.Hour)
	cached, err = cache.GetAmenities(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

// ===================== Featured Cache Tests =====================

func TestRedisClient_Featured_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	mr, cache := setupRedis(t)
	listing := entity.Listing{ID: uuid.New(), HostID: uuid.New(), Title: "Cave", CostPerNight: 100, IsFeatured: true}
	listing.Link()

	require.NoError(t, cache.SetFeatured(ctx, []entity.Listing{listing}, time.Minute))
	cached, err := cache.GetFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, listing.ID, cached[0].ID)
	assert.Equal(t, "Host", cached[0].Host.Typename)

	require.NoError(t, cache.DeleteFeatured(ctx))
	assert.False(t, mr.Exists("listings:featured"))
}

func TestRedisClient_CorruptedEntry(t *testing.T) {
	mr, cache := setupRedis(t)
	require.NoError(t, mr.Set("listings:featured", "not-json"))

	_, err := cache.GetFeatured(context.Background())

	assert.Error(t, err)
}
