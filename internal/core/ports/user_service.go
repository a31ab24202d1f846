package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// UserService creates accounts on behalf of an admin caller.
type UserService interface {
	CreateUser(ctx context.Context, caller domain.Identity, in domain.NewUserInput) (*domain.User, error)
}
