// Package memory holds process-local adapters for every store port. They back
// the default STORE_DRIVER and SESSION_DRIVER and the end-to-end tests.
package memory

import (
	"context"
	"sync"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// UserRepository implements ports.UserRepository in memory.
type UserRepository struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.User
	byName map[string]int64 // normalised user name -> id
	nextID int64
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:   make(map[int64]*domain.User),
		byName: make(map[string]int64),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	key := domain.NormalizeUserName(user.UserName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[key]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	r.byName[key] = stored.ID
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByUserName(_ context.Context, userName string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[domain.NormalizeUserName(userName)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}
