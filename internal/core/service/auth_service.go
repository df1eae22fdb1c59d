package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// AuthService implements registration, login, token refresh, and profile
// retrieval on top of the user repository and the token manager.
type AuthService struct {
	repo       ports.UserRepository
	tokens     *TokenManager
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenManager, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Register validates the input, hashes the password, persists the user, and
// issues the initial token pair. All field validation runs before hashing,
// so a malformed request never pays the bcrypt cost. The repository owns
// the email uniqueness check; a collision surfaces as domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if err := domain.ValidatePassword("password", input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleSupervisor
	}
	if _, err := domain.ValidateIdentity(input.Email, input.Name, role); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(input.Email, input.Name, role, string(hash))
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")

	return &ports.AuthResult{User: created, Tokens: pair}, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password yield the same domain.ErrInvalidCredentials so the response
// never reveals whether the account exists. bcrypt's comparison is
// constant-time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	normalized, err := domain.ValidateEmail("email", email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Refresh rotates a verified refresh token into a brand-new pair. Every
// verification failure is surfaced uniformly as invalid-or-expired; the
// user is re-read so role changes take effect on the next pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("token pair rotated")
	return &pair, nil
}

// Profile returns the safe view for an authenticated subject. Not-found is
// only possible when the account was deleted after token issuance.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
