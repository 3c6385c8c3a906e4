package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer. The found flag
// distinguishes a miss from an unmarshal target left untouched.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
