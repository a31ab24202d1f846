package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID   map[int64]*domain.User
	nextID int64
	// if set, lookups return this error
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	key := domain.NormalizeUserName(user.UserName)
	for _, u := range r.byID {
		if domain.NormalizeUserName(u.UserName) == key {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUserName(_ context.Context, userName string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	key := domain.NormalizeUserName(userName)
	for _, u := range r.byID {
		if domain.NormalizeUserName(u.UserName) == key {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// addUser stores a user with a real bcrypt hash of password.
func (r *stubUserRepo) addUser(name, password string, roles ...domain.Role) *domain.User {
	hash, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	u, err := r.Create(context.Background(), &domain.User{UserName: name, PasswordHash: hash, Roles: roles})
	if err != nil {
		panic(err)
	}
	return u
}

type stubStationRepo struct {
	mu     sync.Mutex
	byID   map[int64]domain.Station
	nextID int64
}

func newStubStationRepo() *stubStationRepo {
	return &stubStationRepo{byID: make(map[int64]domain.Station)}
}

func (r *stubStationRepo) Create(_ context.Context, s *domain.Station) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *s
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	out := stored
	return &out, nil
}

func (r *stubStationRepo) FindByID(_ context.Context, id int64) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	return &s, nil
}

func (r *stubStationRepo) List(_ context.Context) ([]domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Station, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubStationRepo) Update(_ context.Context, id int64, mutate ports.StationMutator) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	next, err := mutate(current)
	if err != nil {
		return nil, err
	}
	next.ID = id
	r.byID[id] = next
	return &next, nil
}

func (r *stubStationRepo) Delete(_ context.Context, id int64, guard ports.StationGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[id]
	if !ok {
		return domain.ErrStationNotFound
	}
	if guard != nil {
		if err := guard(current); err != nil {
			return err
		}
	}
	delete(r.byID, id)
	return nil
}

func (r *stubStationRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubSessionStore struct {
	sessions map[string]domain.Session
	getErr   error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, sess domain.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type stubThrottle struct {
	counts map[string]int64
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{counts: make(map[string]int64)}
}

func (t *stubThrottle) Failures(_ context.Context, key string) (int64, error) {
	return t.counts[key], nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, key string, _ time.Duration) (int64, error) {
	t.counts[key]++
	return t.counts[key], nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	delete(t.counts, key)
	return nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (a *stubAudit) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, *e)
	return nil
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

func adminIdentity(id int64) domain.Identity {
	return domain.Identity{UserID: id, UserName: "admin", Roles: []domain.Role{domain.RoleAdmin}, SessionID: "s-admin"}
}

func userIdentity(id int64) domain.Identity {
	return domain.Identity{UserID: id, UserName: "user", Roles: []domain.Role{domain.RoleUser}, SessionID: "s-user"}
}

func int64Ptr(v int64) *int64 { return &v }
