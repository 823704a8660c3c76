package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login:attempts:"

// RedisLimiter shares attempt counters between service instances.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter builds a limiter backed by client.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

// Attempt increments the counter first and decides on the returned value, so
// concurrent attempts from every instance see distinct counts. The window
// starts at the first attempt and expires with the key.
func (l *RedisLimiter) Attempt(ctx context.Context, key string) (time.Duration, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, keyPrefix+key)
		pipe.ExpireNX(ctx, keyPrefix+key, l.window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if incr.Val() <= int64(l.max) {
		return 0, nil
	}

	ttl, err := l.client.PTTL(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return l.window, nil
	}
	return ttl, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, keyPrefix+key).Err()
}
