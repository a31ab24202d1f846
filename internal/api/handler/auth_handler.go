package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/api/metrics"
	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Description  Sets the session cookie on success. Unknown users and wrong passwords are indistinguishable.
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Router       /api/authentication/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, toUserResponse(res.User))
}

// Me returns the authenticated caller.
//
// @Summary      Current user
// @Tags         authentication
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorBody
// @Router       /api/authentication/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context(), caller(c))
	if err != nil {
		// the session outlived its user
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout revokes the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         authentication
// @Success      200
// @Failure      401  {object}  errorBody
// @Router       /api/authentication/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), caller(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusOK)
}
