package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque values by key. A miss is reported through the bool,
// never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the cache selected by driver: "memory", "redis" or "none".
func New(driver, redisURL string) (Cache, error) {
	switch driver {
	case "", "memory":
		return NewMemoryCache(time.Hour, 10*time.Minute), nil
	case "redis":
		return NewRedisCacheFromURL(redisURL)
	case "none":
		return NopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (NopCache) Delete(ctx context.Context, key string) error {
	return nil
}
