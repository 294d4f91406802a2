package employerapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by a CityCache when no city list is stored.
var ErrCacheMiss = errors.New("city list not cached")

// CityCache stores the city reference list between runs. The list changes
// rarely and fetching it is the slowest part of a search request.
type CityCache interface {
	Get(ctx context.Context) ([]City, error)
	Set(ctx context.Context, cities []City) error
}

const defaultCityTTL = 24 * time.Hour

// RedisCityCache keeps the city list in Redis under a single JSON key.
type RedisCityCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCityCache connects to Redis and verifies the connection. The key
// is namespaced per site so two API sources never share a list.
func NewRedisCityCache(redisURL, site string, ttl time.Duration) (*RedisCityCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCityTTL
	}
	return &RedisCityCache{
		client: client,
		key:    "scout:citylist:" + site,
		ttl:    ttl,
	}, nil
}

func (c *RedisCityCache) Get(ctx context.Context) ([]City, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get city list: %w", err)
	}

	var cities []City
	if err := json.Unmarshal(payload, &cities); err != nil {
		return nil, fmt.Errorf("unmarshal city list: %w", err)
	}
	return cities, nil
}

func (c *RedisCityCache) Set(ctx context.Context, cities []City) error {
	payload, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("marshal city list: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set city list: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisCityCache) Close() error {
	return c.client.Close()
}
