package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// UserRepository is the credential store. User names compare through
// domain.NormalizeUserName.
type UserRepository interface {
	// Create persists user with its roles and returns it with the assigned id.
	// Returns domain.ErrUserExists when the normalised user name is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUserName(ctx context.Context, userName string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
