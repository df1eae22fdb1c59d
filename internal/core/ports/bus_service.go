package ports

import (
	"context"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
)

// CoordinatesInput holds a full geographic pair. Optional positions are
// expressed by a nil *CoordinatesInput, never by a partial pair.
type CoordinatesInput struct {
	Latitude  float64
	Longitude float64
}

// CreateBusInput carries all data needed to register a bus in the fleet.
type CreateBusInput struct {
	LicensePlate string
	Name         string
	Status       string
	Route        string
	Driver       string
	Position     *CoordinatesInput
}

// UpdateBusInput is the explicit allow-list of mutable bus fields. Nil
// pointers mean "leave unchanged"; unknown input keys can never reach the
// model because only these fields are applied.
type UpdateBusInput struct {
	Name       *string
	Status     *string
	Route      *string
	Driver     *string
	MovingTime *int64
	ParkedTime *int64
}

// ListBusesInput carries all parameters for the list endpoint. A non-empty
// Cursor switches from offset pagination to cursor pagination.
type ListBusesInput struct {
	Status   string
	Route    string
	Favorite *bool
	Page     int
	Limit    int
	Cursor   string
}

// BusPage is one page of list results. Total and TotalPages are only set
// in offset mode; NextCursor only in cursor mode. HasMore is always set.
type BusPage struct {
	Items      []*domain.Bus
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasMore    bool
	NextCursor string
}

// BusService defines use-case operations for the fleet.
type BusService interface {
	Create(ctx context.Context, input CreateBusInput) (*domain.Bus, error)
	Get(ctx context.Context, id string) (*domain.Bus, error)
	List(ctx context.Context, input ListBusesInput) (*BusPage, error)
	Update(ctx context.Context, id string, input UpdateBusInput) (*domain.Bus, error)
	UpdatePosition(ctx context.Context, id string, lat, lng float64) (*domain.Bus, error)
	ToggleFavorite(ctx context.Context, id string) (*domain.Bus, error)
	Delete(ctx context.Context, id string) error
}
