package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp23/transit-system/internal/core/domain"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()

	sess := domain.Session{ID: "abc", UserID: 3, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.UserID)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_ExpiredRejected(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	err := store.Create(ctx, domain.Session{ID: "old", UserID: 1, ExpiresAt: past})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLoginThrottle(t *testing.T) {
	th := NewLoginThrottle()
	ctx := context.Background()

	n, err := th.Failures(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 1; i <= 3; i++ {
		n, err = th.RecordFailure(ctx, "bob", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	require.NoError(t, th.Reset(ctx, "bob"))
	n, _ = th.Failures(ctx, "bob")
	assert.Zero(t, n)
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	th := NewLoginThrottle()
	ctx := context.Background()

	_, err := th.RecordFailure(ctx, "sue", 20*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	n, err := th.Failures(ctx, "sue")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuditLog(t *testing.T) {
	log := NewAuditLog()
	require.NoError(t, log.InsertEvent(context.Background(), &domain.AuditEvent{Action: domain.AuditLogin, ActorID: 1}))
	events := log.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditLogin, events[0].Action)
}
