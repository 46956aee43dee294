package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the part of *redis.Client the cache layer relies on.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

var _ Client = (*redis.Client)(nil)

// FromRedis keeps a nil *redis.Client from turning into a non-nil Client.
func FromRedis(rdb *redis.Client) Client {
	if rdb == nil {
		return nil
	}
	return rdb
}

// --- Rate limiting ---

// IncrementRateLimit bumps the counter at key and starts its window on first hit.
func IncrementRateLimit(ctx context.Context, c Client, key string, window time.Duration) (int64, error) {
	n, err := c.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// GetRateLimit returns the counter at key, 0 when absent.
func GetRateLimit(ctx context.Context, c Client, key string) (int64, error) {
	val, err := c.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
