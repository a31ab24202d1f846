package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

const sessionCleanupInterval = 10 * time.Minute

// SessionStore keeps sessions in a TTL cache; entries vanish at ExpiresAt.
type SessionStore struct {
	cache *cache.Cache
	now   func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		cache: cache.New(cache.NoExpiration, sessionCleanupInterval),
		now:   time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, sess domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	s.cache.Set(sess.ID, sess, ttl)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := v.(domain.Session)
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
