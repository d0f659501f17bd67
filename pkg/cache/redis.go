package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the shared second-level cache. Keys are namespaced
// as "<Prefix>:<key>" so several chart services can share one database.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	PoolSize    int
	DialTimeout time.Duration
}

type RedisOption func(*RedisConfig)

func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) { c.Password = password }
}

func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) { c.DB = db }
}

// WithRedisPrefix namespaces every key; an empty prefix keeps "natal".
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		if prefix != "" {
			c.Prefix = prefix
		}
	}
}

// RedisCache stores JSON-encoded place lookups and narratives in Redis.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache connects and pings; an unreachable server is an error so
// the service fails fast at startup instead of on the first chart.
func NewRedisCache(opts ...RedisOption) (*RedisCache, error) {
	cfg := RedisConfig{
		Addr:        "localhost:6379",
		Prefix:      "natal",
		PoolSize:    10,
		DialTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &RedisCache{rdb: rdb, prefix: cfg.Prefix}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *RedisCache) keys(ks []string) []string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		out = append(out, c.key(k))
	}
	return out
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, c.key(key), payload, expiration).Err()
}

// Get decodes the stored JSON into dest. A missing key is ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		return err
	}
	return json.Unmarshal(payload, dest)
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Unlink(ctx, c.keys(keys)...).Err()
}

// Exists reports whether any of keys is present.
func (c *RedisCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.keys(keys)...).Result()
	return n > 0, err
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
