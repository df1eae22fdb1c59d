package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/api/metrics"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// BusHandler handles HTTP requests for fleet operations.
type BusHandler struct {
	service ports.BusService
}

func NewBusHandler(service ports.BusService) *BusHandler {
	return &BusHandler{service: service}
}

// Create handles POST /buses (admin only).
//
// @Summary      Register a bus in the fleet
// @Tags         buses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBusRequest  true  "Bus details"
// @Success      201   {object}  busResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /buses [post]
func (h *BusHandler) Create(c echo.Context) error {
	var req createBusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bus, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.BusesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toBusResponse(bus))
}

// Get handles GET /buses/:id.
//
// @Summary      Get a bus by id
// @Tags         buses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bus id"
// @Success      200  {object}  busResponse
// @Failure      404  {object}  errorResponse
// @Router       /buses/{id} [get]
func (h *BusHandler) Get(c echo.Context) error {
	bus, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBusResponse(bus))
}

// List handles GET /buses. Passing cursor switches from offset to cursor
// pagination; both shapes return {data, pagination} with has_more.
//
// @Summary      List buses
// @Tags         buses
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number (offset mode, 1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        cursor    query     string  false  "Continuation cursor (cursor mode)"
// @Param        status    query     string  false  "Filter by status"  Enums(parked, moving, maintenance)
// @Param        route     query     string  false  "Filter by route"
// @Param        favorite  query     bool    false  "Filter by favorite flag"
// @Success      200       {object}  listBusesResponse
// @Failure      400       {object}  errorResponse
// @Router       /buses [get]
func (h *BusHandler) List(c echo.Context) error {
	input := ports.ListBusesInput{
		Status: c.QueryParam("status"),
		Route:  c.QueryParam("route"),
		Cursor: c.QueryParam("cursor"),
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if fav := c.QueryParam("favorite"); fav != "" {
		v, err := strconv.ParseBool(fav)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "favorite must be true or false")
		}
		input.Favorite = &v
	}

	page, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page))
}

// Update handles PATCH /buses/:id (admin only).
//
// @Summary      Update bus fields
// @Tags         buses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Bus id"
// @Param        body  body      updateBusRequest  true  "Fields to change"
// @Success      200   {object}  busResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /buses/{id} [patch]
func (h *BusHandler) Update(c echo.Context) error {
	var req updateBusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bus, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}

	metrics.BusUpdatesTotal.WithLabelValues("fields").Inc()
	return c.JSON(http.StatusOK, toBusResponse(bus))
}

// UpdatePosition handles PATCH /buses/:id/position (admin only).
//
// @Summary      Update bus position
// @Tags         buses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Bus id"
// @Param        body  body      positionRequest  true  "Coordinates"
// @Success      200   {object}  busResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /buses/{id}/position [patch]
func (h *BusHandler) UpdatePosition(c echo.Context) error {
	var req positionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bus, err := h.service.UpdatePosition(c.Request().Context(), c.Param("id"), *req.Lat, *req.Lng)
	if err != nil {
		return err
	}

	metrics.BusUpdatesTotal.WithLabelValues("position").Inc()
	return c.JSON(http.StatusOK, toBusResponse(bus))
}

// ToggleFavorite handles PATCH /buses/:id/favorite (any authenticated role).
//
// @Summary      Toggle the favorite flag
// @Tags         buses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bus id"
// @Success      200  {object}  busResponse
// @Failure      404  {object}  errorResponse
// @Router       /buses/{id}/favorite [patch]
func (h *BusHandler) ToggleFavorite(c echo.Context) error {
	bus, err := h.service.ToggleFavorite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.BusUpdatesTotal.WithLabelValues("favorite").Inc()
	return c.JSON(http.StatusOK, toBusResponse(bus))
}

// Delete handles DELETE /buses/:id (admin only).
//
// @Summary      Remove a bus from the fleet
// @Tags         buses
// @Security     BearerAuth
// @Param        id  path  string  true  "Bus id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /buses/{id} [delete]
func (h *BusHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
