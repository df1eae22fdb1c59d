package ports

import (
	"context"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations distinguish "not found" (domain.ErrUserNotFound) from the
// store being unreachable (*domain.StorageError).
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks up a user by normalized (lowercase) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user after verifying email uniqueness; a
	// collision yields domain.ErrEmailTaken. Returns the stored user with
	// its assigned id and timestamps.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update persists field changes for an existing user, refreshing
	// UpdatedAt. A missing user yields domain.ErrUserNotFound.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes a user; absence yields domain.ErrUserNotFound.
	Delete(ctx context.Context, id string) error
}
