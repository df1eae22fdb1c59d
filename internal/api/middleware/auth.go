package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/service"
)

// TokenVerifier validates access tokens; satisfied by service.TokenManager.
type TokenVerifier interface {
	VerifyAccess(token string) (*service.Claims, error)
}

// Auth validates the bearer token and injects the decoded identity into
// the request context. Failures surface as typed domain errors so the
// central error handler can report missing vs malformed vs expired.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrTokenMissing
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrTokenMalformed
			}

			claims, err := verifier.VerifyAccess(parts[1])
			if err != nil {
				return err
			}

			c.Set("user_id", claims.Subject)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
