package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "rt:"

// RedisSessionStore keeps the single live refresh token per account. The
// key expires together with the token, so a session that is never touched
// again cleans itself up.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) SetRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	return r.client.Set(ctx, refreshKeyPrefix+accountID.String(), token, safeTTL(expiresAt)).Err()
}

func (r *RedisSessionStore) GetRefreshToken(ctx context.Context, accountID uuid.UUID) (string, error) {
	val, err := r.client.Get(ctx, refreshKeyPrefix+accountID.String()).Result()
	switch {
	case err == redis.Nil:
		return "", nil // nothing stored, account is logged out
	case err != nil:
		return "", err
	default:
		return val, nil
	}
}

func (r *RedisSessionStore) ClearRefreshToken(ctx context.Context, accountID uuid.UUID) error {
	return r.client.Del(ctx, refreshKeyPrefix+accountID.String()).Err()
}

func safeTTL(exp time.Time) time.Duration {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// minimal TTL so the key still disappears on its own
		return time.Hour
	}
	return ttl
}
