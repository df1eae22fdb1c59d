package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// Error type discriminators carried in the envelope so clients can branch
// without parsing messages.
const (
	TypeValidation     = "validation"
	TypeConflict       = "conflict"
	TypeNotFound       = "not_found"
	TypeAuthentication = "authentication"
	TypeAuthorization  = "authorization"
	TypeRateLimit      = "rate_limit"
	TypeInternal       = "internal"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to deterministic HTTP status codes.
//   - Logs storage and unexpected errors internally without leaking
//     details to the client.
//   - Renders the uniform envelope {"error", "type", "details"?}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			Error: fmt.Sprintf("%v", he.Message),
			Type:  typeForStatus(he.Code),
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{
			Error:   ve.Error(),
			Type:    TypeValidation,
			Details: map[string]any{"field": ve.Field},
		}
	}

	var rle *domain.RateLimitError
	if errors.As(err, &rle) {
		return http.StatusTooManyRequests, errorResponse{
			Error:   "too many requests",
			Type:    TypeRateLimit,
			Details: map[string]any{"retry_after_seconds": int(rle.RetryAfter.Seconds())},
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorResponse{
			Error:   err.Error(),
			Type:    TypeConflict,
			Details: map[string]any{"field": "email"},
		}
	case errors.Is(err, domain.ErrPlateTaken):
		return http.StatusConflict, errorResponse{
			Error:   err.Error(),
			Type:    TypeConflict,
			Details: map[string]any{"field": "license_plate"},
		}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrBusNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error(), Type: TypeNotFound}
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenMissing),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Type: TypeAuthentication}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error(), Type: TypeAuthorization}
	}

	// Storage failure: log the real cause, return a generic message.
	var se *domain.StorageError
	if errors.As(err, &se) {
		log.Error().
			Err(se).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("storage error")
		return http.StatusServiceUnavailable, errorResponse{
			Error: "service temporarily unavailable",
			Type:  TypeInternal,
		}
	}

	// Unexpected error: same policy.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Type:  TypeInternal,
	}
}

func typeForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusUnauthorized:
		return TypeAuthentication
	case http.StatusForbidden:
		return TypeAuthorization
	case http.StatusNotFound:
		return TypeNotFound
	case http.StatusTooManyRequests:
		return TypeRateLimit
	default:
		return TypeInternal
	}
}
