package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sp23/transit-system/internal/core/authz"
	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

type StationService struct {
	stations ports.StationRepository
	users    ports.UserRepository
	audit    ports.AuditRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewStationService(
	stations ports.StationRepository,
	users ports.UserRepository,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *StationService {
	return &StationService{
		stations: stations,
		users:    users,
		audit:    audit,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *StationService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.stations.List(ctx)
}

func (s *StationService) GetStation(ctx context.Context, id int64) (*domain.Station, error) {
	return s.stations.FindByID(ctx, id)
}

// CreateStation is admin only.
func (s *StationService) CreateStation(ctx context.Context, caller domain.Identity, in domain.StationInput) (*domain.Station, error) {
	if err := authz.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	station := in.Apply(domain.Station{})
	created, err := s.stations.Create(ctx, &station)
	if err != nil {
		return nil, fmt.Errorf("create station: %w", err)
	}

	s.log.Info().Int64("station_id", created.ID).Int64("actor_id", caller.UserID).Msg("station created")
	s.record(ctx, domain.AuditStationCreate, caller, created.ID)
	return created, nil
}

// UpdateStation replaces every field of the station. Admins and the station's
// manager may update it. Authorization is decided against the record as locked
// by the store.
func (s *StationService) UpdateStation(ctx context.Context, caller domain.Identity, id int64, in domain.StationInput) (*domain.Station, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	updated, err := s.stations.Update(ctx, id, func(current domain.Station) (domain.Station, error) {
		if err := authz.AdminOrManager(caller, current).Err(); err != nil {
			return current, err
		}
		if err := s.validate(ctx, in); err != nil {
			return current, err
		}
		return in.Apply(current), nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("station_id", id).Int64("actor_id", caller.UserID).Msg("station updated")
	s.record(ctx, domain.AuditStationUpdate, caller, id)
	return updated, nil
}

// DeleteStation removes the station. Admins and the station's manager may
// delete it.
func (s *StationService) DeleteStation(ctx context.Context, caller domain.Identity, id int64) error {
	if caller.IsAnonymous() {
		return domain.ErrUnauthenticated
	}

	err := s.stations.Delete(ctx, id, func(current domain.Station) error {
		return authz.AdminOrManager(caller, current).Err()
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("station_id", id).Int64("actor_id", caller.UserID).Msg("station deleted")
	s.record(ctx, domain.AuditStationDelete, caller, id)
	return nil
}

// validate applies the field rules and checks that a referenced manager exists.
func (s *StationService) validate(ctx context.Context, in domain.StationInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.ManagerID == nil {
		return nil
	}
	if _, err := s.users.FindByID(ctx, *in.ManagerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewValidationError("managerId", "managerId "+strconv.FormatInt(*in.ManagerID, 10)+" does not reference a user")
		}
		return fmt.Errorf("lookup manager: %w", err)
	}
	return nil
}

func (s *StationService) record(ctx context.Context, action domain.AuditAction, caller domain.Identity, stationID int64) {
	writeAudit(ctx, s.audit, s.log, &domain.AuditEvent{
		Action:   action,
		ActorID:  caller.UserID,
		TargetID: stationID,
		At:       s.now(),
	})
}
