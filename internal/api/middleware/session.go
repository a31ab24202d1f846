package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

const identityKey = "identity"

// Session resolves the session cookie into the caller identity and stores it
// on the context. A missing or invalid cookie yields domain.Anonymous; only a
// failing session store aborts the request.
func Session(auth ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := domain.Anonymous

			cookie, err := c.Cookie(cookieName)
			switch {
			case err == nil && cookie.Value != "":
				id, err = auth.ResolveIdentity(c.Request().Context(), cookie.Value)
				if err != nil {
					return err
				}
			case err != nil && !errors.Is(err, http.ErrNoCookie):
				return err
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the caller stored by Session, or domain.Anonymous.
func IdentityFrom(c echo.Context) domain.Identity {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous
	}
	return id
}

func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
