package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultLeeway     = 30 * time.Second
)

// Claims are the JWT claims carried by both token types. The jti (ID)
// registered claim is populated so a revocation list can be added later
// without changing the token shape; rotation currently does not revoke
// the previous refresh token.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenConfig holds signing material and lifetimes for both token types.
// Secrets are distinct per type so an access token can never be replayed
// as a refresh token even if type checking regressed.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
	// Leeway is the clock-skew tolerance applied to exp/iat verification.
	Leeway time.Duration
}

// TokenManager issues and verifies HS256 access/refresh token pairs bound
// to an issuer/audience, so tokens minted by another deployment are
// rejected outright.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.Leeway <= 0 {
		cfg.Leeway = defaultLeeway
	}
	return &TokenManager{cfg: cfg}
}

// IssuePair mints a fresh access+refresh pair for the user.
func (m *TokenManager) IssuePair(user *domain.User) (ports.TokenPair, error) {
	access, err := m.sign(user, TokenTypeAccess, m.cfg.AccessSecret, m.cfg.AccessTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := m.sign(user, TokenTypeRefresh, m.cfg.RefreshSecret, m.cfg.RefreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return m.verify(token, TokenTypeAccess, m.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return m.verify(token, TokenTypeRefresh, m.cfg.RefreshSecret)
}

func (m *TokenManager) sign(user *domain.User, tokenType, secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func (m *TokenManager) verify(token, tokenType, secret string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrInvalidToken
		}
	}
	if !parsed.Valid || claims.TokenType != tokenType || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
