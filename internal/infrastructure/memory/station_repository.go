package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// StationRepository implements ports.StationRepository in memory. A single
// mutex serialises writers, which makes every Update and Delete atomic.
type StationRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Station
	nextID int64
}

var _ ports.StationRepository = (*StationRepository)(nil)

func NewStationRepository() *StationRepository {
	return &StationRepository{byID: make(map[int64]domain.Station)}
}

func (r *StationRepository) Create(_ context.Context, s *domain.Station) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneStation(*s)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	out := cloneStation(stored)
	return &out, nil
}

func (r *StationRepository) FindByID(_ context.Context, id int64) (*domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	out := cloneStation(s)
	return &out, nil
}

func (r *StationRepository) List(_ context.Context) ([]domain.Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Station, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, cloneStation(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StationRepository) Update(_ context.Context, id int64, mutate ports.StationMutator) (*domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	next, err := mutate(cloneStation(current))
	if err != nil {
		return nil, err
	}
	next.ID = id
	r.byID[id] = cloneStation(next)
	return &next, nil
}

func (r *StationRepository) Delete(_ context.Context, id int64, guard ports.StationGuard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return domain.ErrStationNotFound
	}
	if guard != nil {
		if err := guard(cloneStation(current)); err != nil {
			return err
		}
	}
	delete(r.byID, id)
	return nil
}

func (r *StationRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func cloneStation(s domain.Station) domain.Station {
	if s.ManagerID != nil {
		v := *s.ManagerID
		s.ManagerID = &v
	}
	return s
}
