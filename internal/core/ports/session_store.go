package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// SessionStore is the server-side backing store for login sessions.
type SessionStore interface {
	Create(ctx context.Context, s domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown, expired or revoked ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
