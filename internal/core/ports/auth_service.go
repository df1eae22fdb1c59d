package ports

import (
	"context"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account. Role may be
// empty, in which case the service assigns the default supervisor role.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// TokenPair is an access/refresh token couple issued together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Register and Login: the safe user view plus a
// fresh token pair.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// AuthService defines the identity use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// Login authenticates by email and password. An unknown email and a
	// wrong password both yield domain.ErrInvalidCredentials so callers
	// cannot enumerate accounts.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh verifies a refresh token and issues a brand-new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Profile returns the safe view for an authenticated subject id.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
