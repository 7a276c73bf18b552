package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-calendar-api/core/config"
	"social-calendar-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// SetIfNewer writes value only when version is greater than the version
	// stored with key and reports whether it wrote.
	SetIfNewer(ctx context.Context, key string, version uint64, value string, ttl time.Duration) (bool, error)
	// GetVersioned reads a value written by SetIfNewer.
	GetVersioned(ctx context.Context, key string) (string, error)
	Close() error
}

// Versions are zero padded so Lua compares them as strings without losing
// precision on 64-bit values.
var setIfNewerScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and cur >= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'value', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisCache:PingFailed", "addr", cfg.Addr, "error", err)
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Cache:NewRedisCache:Connected", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

// NewFromClient wraps an existing client, e.g. one shared with the task queue.
func NewFromClient(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *redisCache) SetIfNewer(ctx context.Context, key string, version uint64, value string, ttl time.Duration) (bool, error) {
	n, err := setIfNewerScript.Run(ctx, c.client, []string{key}, fmt.Sprintf("%020d", version), value, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *redisCache) GetVersioned(ctx context.Context, key string) (string, error) {
	val, err := c.client.HGet(ctx, key, "value").Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
