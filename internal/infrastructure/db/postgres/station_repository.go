package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

var stationColumns = []string{"id", "name", "address", "manager_id"}

// StationRepository implements ports.StationRepository. Update and Delete lock
// the row with SELECT ... FOR UPDATE for the duration of the callback.
type StationRepository struct {
	db DB
}

var _ ports.StationRepository = (*StationRepository)(nil)

func NewStationRepository(db DB) *StationRepository {
	return &StationRepository{db: db}
}

func (r *StationRepository) Create(ctx context.Context, s *domain.Station) (*domain.Station, error) {
	q, args, err := psql.Insert("stations").
		Columns("name", "address", "manager_id").
		Values(s.Name, s.Address, s.ManagerID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert station: %w", err)
	}

	created := *s
	if err := r.db.QueryRow(ctx, q, args...).Scan(&created.ID); err != nil {
		return nil, mapStationWriteError("insert station", err)
	}
	return &created, nil
}

func (r *StationRepository) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	q, args, err := psql.Select(stationColumns...).From("stations").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find station: %w", err)
	}
	return scanStation(r.db.QueryRow(ctx, q, args...))
}

func (r *StationRepository) List(ctx context.Context) ([]domain.Station, error) {
	q, args, err := psql.Select(stationColumns...).From("stations").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stations: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Station, 0)
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.ManagerID); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return out, nil
}

func (r *StationRepository) Update(ctx context.Context, id int64, mutate ports.StationMutator) (*domain.Station, error) {
	var updated domain.Station
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockStation(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := mutate(*current)
		if err != nil {
			return err
		}
		next.ID = id

		q, args, err := psql.Update("stations").
			Set("name", next.Name).
			Set("address", next.Address).
			Set("manager_id", next.ManagerID).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update station: %w", err)
		}
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return mapStationWriteError("update station", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *StationRepository) Delete(ctx context.Context, id int64, guard ports.StationGuard) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := lockStation(ctx, tx, id)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(*current); err != nil {
				return err
			}
		}

		q, args, err := psql.Delete("stations").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete station: %w", err)
		}
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("delete station: %w", err)
		}
		return nil
	})
}

func (r *StationRepository) Count(ctx context.Context) (int64, error) {
	q, args, err := psql.Select("COUNT(*)").From("stations").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count stations: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stations: %w", err)
	}
	return n, nil
}

func lockStation(ctx context.Context, tx pgx.Tx, id int64) (*domain.Station, error) {
	q, args, err := psql.Select(stationColumns...).
		From("stations").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lock station: %w", err)
	}
	return scanStation(tx.QueryRow(ctx, q, args...))
}

func scanStation(row pgx.Row) (*domain.Station, error) {
	var s domain.Station
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &s.ManagerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStationNotFound
		}
		return nil, fmt.Errorf("scan station: %w", err)
	}
	return &s, nil
}

// mapStationWriteError turns a dangling manager reference into a validation
// error.
func mapStationWriteError(op string, err error) error {
	if pgErrorCode(err) == codeForeignKeyViolation {
		return domain.NewValidationError("managerId", "managerId does not reference a user")
	}
	return fmt.Errorf("%s: %w", op, err)
}
