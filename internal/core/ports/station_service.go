package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// StationService composes authorization and validation over the station store.
type StationService interface {
	ListStations(ctx context.Context) ([]domain.Station, error)
	GetStation(ctx context.Context, id int64) (*domain.Station, error)
	CreateStation(ctx context.Context, caller domain.Identity, in domain.StationInput) (*domain.Station, error)
	UpdateStation(ctx context.Context, caller domain.Identity, id int64, in domain.StationInput) (*domain.Station, error)
	DeleteStation(ctx context.Context, caller domain.Identity, id int64) error
}
