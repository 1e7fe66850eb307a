// Package cache provides the shared key/value cache used for exchange rates.
// Redis backs it when reachable, with an in-process TTL map as fallback.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or past its TTL.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the minimal get/set capability injected into consumers.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
