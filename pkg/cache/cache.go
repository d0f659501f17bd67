package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface. Values are stored as JSON, so
// Get must be given a pointer to a type the value round-trips through.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

var loads singleflight.Group

// GetOrLoad returns the cached value for key, or calls load once (even under
// concurrent callers for the same key) and caches its result for ttl.
// Cache failures degrade to calling load; only load errors are returned.
func GetOrLoad[T any](ctx context.Context, c Service, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if c != nil {
		if err := c.Get(ctx, key, &out); err == nil {
			return out, nil
		}
	}

	v, err, _ := loads.Do(key, func() (interface{}, error) {
		val, err := load(ctx)
		if err != nil {
			return val, err
		}
		if c != nil {
			_ = c.Set(ctx, key, val, ttl)
		}
		return val, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}
