package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp23/transit-system/internal/core/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
	assert.Equal(t, "login_failures:bob", throttleKey("bob"))
}

func TestSessionStore_ExpiredRejected(t *testing.T) {
	// the client is never dialled: an expired session fails before any command
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	store := NewSessionStore(client)

	past := time.Now().Add(-time.Second)
	err := store.Create(context.Background(), domain.Session{ID: "old", UserID: 1, ExpiresAt: past})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

// The tests below need a live server: REDIS_TEST_ADDR=localhost:6379.
func connectForTest(t *testing.T) *SessionStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client)
}

func TestSessionStore_Integration(t *testing.T) {
	store := connectForTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	sess := domain.Session{ID: uuid.NewString(), UserID: 9, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLoginThrottle_Integration(t *testing.T) {
	store := connectForTest(t)
	th := NewLoginThrottle(store.client)
	ctx := context.Background()
	key := "it-" + uuid.NewString()

	for i := int64(1); i <= 2; i++ {
		n, err := th.RecordFailure(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	n, err := th.Failures(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, th.Reset(ctx, key))
	n, err = th.Failures(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}
