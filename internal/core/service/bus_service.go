package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BusService implements fleet use cases on top of the bus repository.
type BusService struct {
	repo ports.BusRepository
	log  zerolog.Logger
}

func NewBusService(repo ports.BusRepository, log zerolog.Logger) *BusService {
	return &BusService{repo: repo, log: log}
}

// Create registers a new bus. The repository owns the plate uniqueness
// check; a collision surfaces as domain.ErrPlateTaken.
func (s *BusService) Create(ctx context.Context, input ports.CreateBusInput) (*domain.Bus, error) {
	bus, err := domain.NewBus(input.LicensePlate, input.Name, input.Status, input.Route, input.Driver)
	if err != nil {
		return nil, err
	}
	if input.Position != nil {
		if err := bus.SetPosition(input.Position.Latitude, input.Position.Longitude); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, bus)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("bus_id", created.ID).Str("license_plate", created.LicensePlate).Msg("bus created")
	return created, nil
}

// Get retrieves a single bus by id.
func (s *BusService) Get(ctx context.Context, id string) (*domain.Bus, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of buses. A non-empty cursor selects the
// cursor-based scan (no total count); otherwise the offset scan runs and
// the page carries total and total_pages.
func (s *BusService) List(ctx context.Context, input ports.ListBusesInput) (*ports.BusPage, error) {
	if input.Status != "" {
		if err := domain.ValidateEnum("status", input.Status, domain.BusStatuses); err != nil {
			return nil, err
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := ports.ListBusesFilter{
		Status:   input.Status,
		Route:    input.Route,
		Favorite: input.Favorite,
	}

	if input.Cursor != "" {
		items, next, hasMore, err := s.repo.ListAfter(ctx, input.Cursor, limit, filter)
		if err != nil {
			return nil, err
		}
		return &ports.BusPage{
			Items:      items,
			Limit:      limit,
			HasMore:    hasMore,
			NextCursor: next,
		}, nil
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}

	items, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.BusPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// Update applies the allow-listed field changes to an existing bus. Each
// field goes through the model's own setter, so every invariant holds on
// the way in.
func (s *BusService) Update(ctx context.Context, id string, input ports.UpdateBusInput) (*domain.Bus, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := bus.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if err := bus.SetStatus(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.Route != nil {
		bus.Route = *input.Route
	}
	if input.Driver != nil {
		bus.Driver = *input.Driver
	}
	if input.MovingTime != nil {
		if *input.MovingTime < 0 {
			return nil, domain.NewValidationError("moving_time", "must not be negative")
		}
		bus.MovingTime = *input.MovingTime
	}
	if input.ParkedTime != nil {
		if *input.ParkedTime < 0 {
			return nil, domain.NewValidationError("parked_time", "must not be negative")
		}
		bus.ParkedTime = *input.ParkedTime
	}

	updated, err := s.repo.Update(ctx, bus)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("bus_id", id).Msg("bus updated")
	return updated, nil
}

// UpdatePosition records a full coordinate pair for the bus.
func (s *BusService) UpdatePosition(ctx context.Context, id string, lat, lng float64) (*domain.Bus, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bus.SetPosition(lat, lng); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, bus)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ToggleFavorite flips the favorite flag; open to any authenticated role.
func (s *BusService) ToggleFavorite(ctx context.Context, id string) (*domain.Bus, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bus.ToggleFavorite()

	updated, err := s.repo.Update(ctx, bus)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a bus from the fleet.
func (s *BusService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("bus_id", id).Msg("bus deleted")
	return nil
}
