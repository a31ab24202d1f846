package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LoginThrottle counts failed logins in a TTL cache. Each failure restarts
// the window, matching the Redis implementation.
type LoginThrottle struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{cache: cache.New(cache.NoExpiration, time.Minute)}
}

func (t *LoginThrottle) Failures(_ context.Context, key string) (int64, error) {
	v, ok := t.cache.Get(key)
	if !ok {
		return 0, nil
	}
	return v.(int64), nil
}

func (t *LoginThrottle) RecordFailure(_ context.Context, key string, window time.Duration) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var n int64
	if v, ok := t.cache.Get(key); ok {
		n = v.(int64)
	}
	n++
	t.cache.Set(key, n, window)
	return n, nil
}

func (t *LoginThrottle) Reset(_ context.Context, key string) error {
	t.cache.Delete(key)
	return nil
}
