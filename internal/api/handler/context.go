package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty user id and role prove
// the middleware ran; anything else means the route is miswired.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(string)
	if userID == "" || role == "" {
		return "", "", domain.ErrTokenMissing
	}
	return userID, role, nil
}
