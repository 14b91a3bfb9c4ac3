package infra

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productLockTTL     = 10 * time.Second
	productLockRetries = 40
	productLockBackoff = 50 * time.Millisecond
)

// RedisLocker hands out short-lived per-key locks backed by redis. Callers that
// cannot obtain a lock within the retry budget get ok=false.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), bool, error) {
	lock, err := l.client.Obtain(ctx, key, productLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(productLockBackoff), productLockRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	release := func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("locker: release failed")
		}
	}
	return release, true, nil
}
