package ports

import (
	"context"
	"time"

	"github.com/sp23/transit-system/internal/core/domain"
)

// LoginResult is returned by a successful login. Token is delivered to the
// client as a cookie, never in the response body.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService is the session manager.
type AuthService interface {
	// Login fails with domain.ErrInvalidCredentials for an unknown user, a wrong
	// password or a locked account alike.
	Login(ctx context.Context, userName, password string) (*LoginResult, error)
	// ResolveIdentity returns domain.Anonymous for a missing, malformed,
	// unknown, expired or revoked token. Errors are infrastructure failures.
	ResolveIdentity(ctx context.Context, token string) (domain.Identity, error)
	Logout(ctx context.Context, caller domain.Identity) error
	CurrentUser(ctx context.Context, caller domain.Identity) (*domain.User, error)
}
