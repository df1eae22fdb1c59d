package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-tracking/internal/api/metrics"
	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// RateLimitPolicy describes one throttling window keyed by client IP.
type RateLimitPolicy struct {
	// Scope names the policy in keys and metrics ("login", "register", "api").
	Scope  string
	Limit  int
	Window time.Duration
	// FailuresOnly counts only requests that ended in an authentication
	// failure. Successful logins never consume the window, so normal use
	// cannot lock an account's IP out while credential guessing still
	// accumulates.
	FailuresOnly bool
}

// RateLimit throttles requests per client IP against the given policy.
// A limiter backend failure is logged and the request admitted: the
// limiter protects against abuse, it must not become the outage.
func RateLimit(limiter ports.RateLimiter, policy RateLimitPolicy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := policy.Scope + ":" + c.RealIP()

			if policy.FailuresOnly {
				res, err := limiter.Check(ctx, key, policy.Limit, policy.Window)
				if err != nil {
					log.Warn().Err(err).Str("scope", policy.Scope).Msg("rate limiter unavailable, admitting request")
					return next(c)
				}
				if !res.Allowed {
					metrics.RateLimitedTotal.WithLabelValues(policy.Scope).Inc()
					return &domain.RateLimitError{RetryAfter: res.RetryAfter}
				}

				err = next(c)
				if isAuthFailure(err) {
					if recordErr := limiter.Record(ctx, key, policy.Window); recordErr != nil {
						log.Warn().Err(recordErr).Str("scope", policy.Scope).Msg("failed to record rate limit attempt")
					}
				}
				return err
			}

			res, err := limiter.Allow(ctx, key, policy.Limit, policy.Window)
			if err != nil {
				log.Warn().Err(err).Str("scope", policy.Scope).Msg("rate limiter unavailable, admitting request")
				return next(c)
			}
			if !res.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(policy.Scope).Inc()
				return &domain.RateLimitError{RetryAfter: res.RetryAfter}
			}

			return next(c)
		}
	}
}

func isAuthFailure(err error) bool {
	return err != nil && (errors.Is(err, domain.ErrInvalidCredentials) ||
		errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrTokenExpired))
}
