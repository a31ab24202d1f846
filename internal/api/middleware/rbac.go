package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/core/authz"
	"github.com/sp23/transit-system/internal/core/domain"
)

// RequireAuth rejects anonymous callers with domain.ErrUnauthenticated.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c).IsAnonymous() {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control: anonymous callers get
// domain.ErrUnauthenticated, authenticated callers without role get
// domain.ErrForbidden.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.Authorize(IdentityFrom(c), role, nil).Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
