package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/buses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"email conflict", domain.ErrEmailTaken, http.StatusConflict, TypeConflict},
		{"plate conflict", domain.ErrPlateTaken, http.StatusConflict, TypeConflict},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, TypeNotFound},
		{"bus not found", domain.ErrBusNotFound, http.StatusNotFound, TypeNotFound},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, TypeAuthentication},
		{"missing token", domain.ErrTokenMissing, http.StatusUnauthorized, TypeAuthentication},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, TypeAuthentication},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, TypeAuthorization},
		{"echo bind failure", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, TypeValidation},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := render(t, tc.err)
			if code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, code)
			}
			if body.Type != tc.wantType {
				t.Fatalf("expected type %q, got %q", tc.wantType, body.Type)
			}
			if body.Error == "" {
				t.Fatalf("envelope must carry a message")
			}
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	code, body := render(t, domain.NewValidationError("latitude", "must be between -90 and 90"))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Type != TypeValidation {
		t.Fatalf("expected validation type, got %q", body.Type)
	}
	if body.Details["field"] != "latitude" {
		t.Fatalf("expected offending field in details, got %v", body.Details)
	}
}

func TestErrorHandler_ConflictNamesField(t *testing.T) {
	_, body := render(t, domain.ErrEmailTaken)
	if body.Details["field"] != "email" {
		t.Fatalf("expected email field in details, got %v", body.Details)
	}

	_, body = render(t, domain.ErrPlateTaken)
	if body.Details["field"] != "license_plate" {
		t.Fatalf("expected license_plate field in details, got %v", body.Details)
	}
}

func TestErrorHandler_RateLimitDetails(t *testing.T) {
	code, body := render(t, &domain.RateLimitError{RetryAfter: 90 * time.Second})
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if body.Type != TypeRateLimit {
		t.Fatalf("expected rate_limit type, got %q", body.Type)
	}
	if body.Details["retry_after_seconds"] != float64(90) {
		t.Fatalf("expected retry_after_seconds 90, got %v", body.Details)
	}
}

func TestErrorHandler_StorageErrorIsOpaque(t *testing.T) {
	err := domain.NewStorageError("find", errors.New("connection reset by peer"))
	code, body := render(t, err)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if body.Error != "service temporarily unavailable" {
		t.Fatalf("storage detail must not leak, got %q", body.Error)
	}
}

func TestErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/buses", nil), rec)

	if err := c.NoContent(http.StatusOK); err != nil {
		t.Fatalf("commit: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrBusNotFound, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("committed response must not be rewritten, got %d", rec.Code)
	}
}
