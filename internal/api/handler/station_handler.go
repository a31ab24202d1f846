package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/api/metrics"
	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

type StationHandler struct {
	stationService ports.StationService
}

func NewStationHandler(stationService ports.StationService) *StationHandler {
	return &StationHandler{stationService: stationService}
}

// List returns every station ordered by id.
//
// @Summary      List stations
// @Tags         stations
// @Produce      json
// @Success      200  {array}   stationResponse
// @Router       /api/stations [get]
func (h *StationHandler) List(c echo.Context) error {
	stations, err := h.stationService.ListStations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStationListResponse(stations))
}

// Get returns one station.
//
// @Summary      Get station
// @Tags         stations
// @Produce      json
// @Param        id   path      int  true  "Station id"
// @Success      200  {object}  stationResponse
// @Failure      404  {object}  errorBody
// @Router       /api/stations/{id} [get]
func (h *StationHandler) Get(c echo.Context) error {
	id, err := stationID(c)
	if err != nil {
		return err
	}
	station, err := h.stationService.GetStation(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStationResponse(station))
}

// Create adds a station. Admin only.
//
// @Summary      Create station
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        body  body      stationRequest  true  "Station"
// @Success      201   {object}  stationResponse
// @Header       201   {string}  Location  "/api/stations/{id}"
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /api/stations [post]
func (h *StationHandler) Create(c echo.Context) error {
	var req stationRequest
	if err := c.Bind(&req); err != nil {
		return h.observe("create", domain.NewValidationError("body", "invalid payload"))
	}

	station, err := h.stationService.CreateStation(c.Request().Context(), caller(c), req.toInput())
	if err != nil {
		return h.observe("create", err)
	}
	h.observe("create", nil)

	c.Response().Header().Set(echo.HeaderLocation, "/api/stations/"+strconv.FormatInt(station.ID, 10))
	return c.JSON(http.StatusCreated, toStationResponse(station))
}

// Update replaces a station. Admins and the station manager may call it.
//
// @Summary      Update station
// @Tags         stations
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Station id"
// @Param        body  body      stationRequest  true  "Station"
// @Success      200   {object}  stationResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/stations/{id} [put]
func (h *StationHandler) Update(c echo.Context) error {
	id, err := stationID(c)
	if err != nil {
		return h.observe("update", err)
	}
	var req stationRequest
	if err := c.Bind(&req); err != nil {
		return h.observe("update", domain.NewValidationError("body", "invalid payload"))
	}

	station, err := h.stationService.UpdateStation(c.Request().Context(), caller(c), id, req.toInput())
	if err != nil {
		return h.observe("update", err)
	}
	h.observe("update", nil)
	return c.JSON(http.StatusOK, toStationResponse(station))
}

// Delete removes a station. Admins and the station manager may call it.
//
// @Summary      Delete station
// @Tags         stations
// @Param        id   path  int  true  "Station id"
// @Success      200
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/stations/{id} [delete]
func (h *StationHandler) Delete(c echo.Context) error {
	id, err := stationID(c)
	if err != nil {
		return h.observe("delete", err)
	}
	if err := h.stationService.DeleteStation(c.Request().Context(), caller(c), id); err != nil {
		return h.observe("delete", err)
	}
	h.observe("delete", nil)
	return c.NoContent(http.StatusOK)
}

// observe counts the mutation outcome and passes err through.
func (h *StationHandler) observe(action string, err error) error {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = metrics.ResultForbidden
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrStationNotFound):
		result = metrics.ResultFailure
	default:
		result = metrics.ResultError
	}
	metrics.StationMutationsTotal.WithLabelValues(action, result).Inc()
	return err
}
