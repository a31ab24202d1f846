package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sp23/transit-system/internal/core/authz"
	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	audit ports.AuditRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserRepository, audit ports.AuditRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		audit: audit,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser registers a new account. Only admins may call it.
func (s *UserService) CreateUser(ctx context.Context, caller domain.Identity, in domain.NewUserInput) (*domain.User, error) {
	if err := authz.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}

	roles, err := in.Validate()
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		UserName:     in.UserName,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", created.ID).
		Int64("created_by", caller.UserID).
		Msg("user created")
	writeAudit(ctx, s.audit, s.log, &domain.AuditEvent{
		Action:   domain.AuditUserCreated,
		ActorID:  caller.UserID,
		TargetID: created.ID,
		At:       s.now(),
	})
	return created, nil
}
