package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"bookwise/config"
	"bookwise/models"
)

// CacheClient is the shared Redis client for response caching.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the shared cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// AvailabilityCache caches generated slot grids keyed by
// (providerID, serviceID, local date). It is an external collaborator
// of the slot engine, never internal state: the engine recomputes from
// the repositories, the cache only short-circuits repeated reads and is
// invalidated whenever a booking for that provider/day changes.
type AvailabilityCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewAvailabilityCache builds a cache with the configured TTL.
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{
		Client: client,
		TTL:    time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
	}
}

func availabilityKey(providerID, serviceID, date string) string {
	return fmt.Sprintf("avail:%s:%s:%s", providerID, serviceID, date)
}

// Get returns the cached slot grid, or (nil, false) on miss or error.
func (ac *AvailabilityCache) Get(ctx context.Context, providerID, serviceID, date string) ([]models.DayAvailability, bool) {
	if ac == nil || ac.Client == nil {
		return nil, false
	}
	data, err := ac.Client.Get(ctx, availabilityKey(providerID, serviceID, date)).Result()
	if err != nil {
		return nil, false
	}
	var days []models.DayAvailability
	if err := json.Unmarshal([]byte(data), &days); err != nil {
		return nil, false
	}
	return days, true
}

// Set stores a slot grid. Failures are ignored; the cache is advisory.
func (ac *AvailabilityCache) Set(ctx context.Context, providerID, serviceID, date string, days []models.DayAvailability) {
	if ac == nil || ac.Client == nil {
		return
	}
	data, err := json.Marshal(days)
	if err != nil {
		return
	}
	_ = ac.Client.Set(ctx, availabilityKey(providerID, serviceID, date), data, ac.TTL).Err()
}

// Invalidate drops every cached grid for the provider, regardless of
// service or date. Commit and cancel paths call this so stale slot
// grids never outlive a booking change.
func (ac *AvailabilityCache) Invalidate(ctx context.Context, providerID string) {
	if ac == nil || ac.Client == nil {
		return
	}
	pattern := fmt.Sprintf("avail:%s:*", providerID)
	iter := ac.Client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		_ = ac.Client.Del(ctx, iter.Val()).Err()
	}
}
