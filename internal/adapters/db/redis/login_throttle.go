package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "la:"

// RedisLoginThrottle counts login attempts per client key over a fixed
// window. The counter is shared by every service instance talking to the
// same redis, so the cap holds under scale-out.
type RedisLoginThrottle struct {
	client *redis.Client
	window time.Duration
	max    int
}

func NewRedisLoginThrottle(client *redis.Client, window time.Duration, max int) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client, window: window, max: max}
}

func (r *RedisLoginThrottle) Admit(ctx context.Context, clientKey string) (bool, error) {
	key := attemptKeyPrefix + clientKey

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	// Fixed-window semantics: the TTL is set on the first hit only, so the
	// counter resets as a whole when the window elapses.
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(r.max), nil
}
