package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// StationMutator computes the replacement for a locked station record. A
// non-nil error aborts the update and leaves the record unchanged.
type StationMutator func(current domain.Station) (domain.Station, error)

// StationGuard vets a locked station before it is deleted.
type StationGuard func(current domain.Station) error

// StationRepository is the resource store for stations. Ids are assigned on
// create and never reused.
type StationRepository interface {
	Create(ctx context.Context, s *domain.Station) (*domain.Station, error)
	FindByID(ctx context.Context, id int64) (*domain.Station, error)
	// List returns every station ordered by id ascending.
	List(ctx context.Context) ([]domain.Station, error)
	// Update applies mutate to the current record while holding its lock.
	// Returns domain.ErrStationNotFound before calling mutate if id is unknown.
	Update(ctx context.Context, id int64, mutate StationMutator) (*domain.Station, error)
	// Delete removes the record if guard (when non-nil) accepts it.
	Delete(ctx context.Context, id int64, guard StationGuard) error
	Count(ctx context.Context) (int64, error)
}
