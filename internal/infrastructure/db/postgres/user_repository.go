package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// UserRepository implements ports.UserRepository over the users and
// user_roles tables.
type UserRepository struct {
	db DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	insertUser, args, err := psql.Insert("users").
		Columns("user_name", "normalized_user_name", "password_hash", "created_at").
		Values(user.UserName, domain.NormalizeUserName(user.UserName), user.PasswordHash, createdAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}

	var id int64
	err = withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertUser, args...).Scan(&id); err != nil {
			if pgErrorCode(err) == codeUniqueViolation {
				return domain.ErrUserExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if len(user.Roles) == 0 {
			return nil
		}

		insertRoles := psql.Insert("user_roles").Columns("user_id", "role")
		for _, role := range user.Roles {
			insertRoles = insertRoles.Values(id, string(role))
		}
		q, rargs, err := insertRoles.ToSql()
		if err != nil {
			return fmt.Errorf("build insert roles: %w", err)
		}
		if _, err := tx.Exec(ctx, q, rargs...); err != nil {
			return fmt.Errorf("insert roles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := *user
	created.ID = id
	created.CreatedAt = createdAt
	created.Roles = append([]domain.Role(nil), user.Roles...)
	return &created, nil
}

func (r *UserRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"u.normalized_user_name": domain.NormalizeUserName(userName)})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	q, args, err := psql.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	q, args, err := psql.
		Select(
			"u.id", "u.user_name", "u.password_hash", "u.created_at",
			"COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')",
		).
		From("users u").
		LeftJoin("user_roles ur ON ur.user_id = u.id").
		Where(where).
		GroupBy("u.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find user: %w", err)
	}

	var (
		u     domain.User
		roles []string
	)
	err = r.db.QueryRow(ctx, q, args...).Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.CreatedAt, &roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.Roles = make([]domain.Role, 0, len(roles))
	for _, name := range roles {
		role, err := domain.ParseRole(name)
		if err != nil {
			continue
		}
		u.Roles = append(u.Roles, role)
	}
	return &u, nil
}
