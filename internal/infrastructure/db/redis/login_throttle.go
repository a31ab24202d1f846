package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins with INCR and restarts the window with
// EXPIRE on every failure.
// Key format: login_failures:<normalised user name>
type LoginThrottle struct {
	client redis.Cmdable
}

func NewLoginThrottle(client redis.Cmdable) *LoginThrottle {
	return &LoginThrottle{client: client}
}

func (t *LoginThrottle) Failures(ctx context.Context, key string) (int64, error) {
	n, err := t.client.Get(ctx, throttleKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("login throttle check: %w", err)
	}
	return n, nil
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, throttleKey(key))
	pipe.Expire(ctx, throttleKey(key), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("login throttle record: %w", err)
	}
	return incr.Val(), nil
}

func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, throttleKey(key)).Err()
}

func throttleKey(key string) string {
	return "login_failures:" + key
}
