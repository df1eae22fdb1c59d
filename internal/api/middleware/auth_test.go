package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/service"
)

func newAuthTokenManager() *service.TokenManager {
	return service.NewTokenManager(service.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "fleet-tracking-test",
		Audience:      "dashboard-test",
		Leeway:        time.Second,
	})
}

// expiredAccessToken mints a token matching newAuthTokenManager's signing
// parameters but with exp two minutes in the past.
func expiredAccessToken(t *testing.T) string {
	t.Helper()
	now := time.Now().UTC()
	claims := service.Claims{
		Email:     "ops@example.com",
		Role:      domain.RoleAdmin,
		TokenType: service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "fleet-tracking-test",
			Audience:  jwt.ClaimStrings{"dashboard-test"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func runAuth(t *testing.T, tm *service.TokenManager, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(tm)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	tm := newAuthTokenManager()
	pair, err := tm.IssuePair(&domain.User{ID: "u1", Email: "ops@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	c, err := runAuth(t, tm, "Bearer "+pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Get("user_id"); got != "u1" {
		t.Fatalf("expected user_id in context, got %v", got)
	}
	if got := c.Get("role"); got != domain.RoleAdmin {
		t.Fatalf("expected role in context, got %v", got)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	tm := newAuthTokenManager()
	if _, err := runAuth(t, tm, ""); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	tm := newAuthTokenManager()
	for _, header := range []string{"Token abc", "justatoken"} {
		if _, err := runAuth(t, tm, header); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%q: expected ErrTokenMalformed, got %v", header, err)
		}
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	tm := newAuthTokenManager()
	pair, _ := tm.IssuePair(&domain.User{ID: "u1", Email: "ops@example.com", Role: domain.RoleAdmin})

	if _, err := runAuth(t, tm, "Bearer "+pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	tm := newAuthTokenManager()

	if _, err := runAuth(t, tm, "Bearer "+expiredAccessToken(t)); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
