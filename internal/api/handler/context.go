package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/api/middleware"
	"github.com/sp23/transit-system/internal/core/domain"
)

// caller returns the identity resolved by the session middleware.
func caller(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// stationID parses the :id path parameter. An id that is not a positive
// integer cannot name a station, so it is reported as not found.
func stationID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrStationNotFound
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
// Decode and validation failures are reported as domain validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}
