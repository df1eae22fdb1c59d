package ports

import (
	"context"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// ListBusesFilter carries the equality predicates for listing buses.
// Zero values mean "no filter"; Favorite uses a pointer so false is a
// real filter, not an absent one.
type ListBusesFilter struct {
	Status   string
	Route    string
	Favorite *bool
}

// BusRepository defines persistence operations for buses. Implementations
// distinguish "not found" (domain.ErrBusNotFound) from the store being
// unreachable (*domain.StorageError).
type BusRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Bus, error)
	// FindByPlate looks up a bus by normalized (uppercase) license plate.
	FindByPlate(ctx context.Context, plate string) (*domain.Bus, error)
	// Create persists a new bus after verifying plate uniqueness; a
	// collision yields domain.ErrPlateTaken. Returns the stored bus with
	// its assigned id and timestamps.
	Create(ctx context.Context, bus *domain.Bus) (*domain.Bus, error)
	// Update persists field changes for an existing bus, refreshing
	// UpdatedAt. A missing bus yields domain.ErrBusNotFound.
	Update(ctx context.Context, bus *domain.Bus) (*domain.Bus, error)
	// Delete removes a bus; absence yields domain.ErrBusNotFound.
	Delete(ctx context.Context, id string) error

	// List returns one offset-based page of buses matching filter plus the
	// total count of matches. This is a full count + skip scan per call;
	// ListAfter is the scaling path.
	List(ctx context.Context, filter ListBusesFilter, page, limit int) ([]*domain.Bus, int64, error)
	// ListAfter returns up to limit buses with ids greater than cursor
	// (empty cursor starts from the beginning), the cursor for the next
	// page, and whether more results exist. No count pass is performed.
	ListAfter(ctx context.Context, cursor string, limit int, filter ListBusesFilter) ([]*domain.Bus, string, bool, error)
}
