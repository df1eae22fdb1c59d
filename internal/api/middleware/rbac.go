package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// RBAC enforces role-based access control. It runs after Auth, so the role
// in context is trusted; an authenticated identity with a role outside the
// allowed set is rejected as forbidden, not unauthenticated.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
