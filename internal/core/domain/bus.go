package domain

import (
	"strings"
	"time"
)

// BusStatus represents the operational state of a bus.
type BusStatus string

const (
	StatusParked      BusStatus = "parked"
	StatusMoving      BusStatus = "moving"
	StatusMaintenance BusStatus = "maintenance"
)

// BusStatuses is the allowed status set, in the order reported to clients.
var BusStatuses = []string{
	string(StatusParked),
	string(StatusMoving),
	string(StatusMaintenance),
}

const (
	minPlateLength   = 3
	maxPlateLength   = 20
	minBusNameLength = 1
	maxBusNameLength = 50
)

// Coordinates is a geographic point. Both fields are always present and in
// range; an absent position is represented by a nil *Coordinates on Bus,
// which is a distinct state from a zero coordinate.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Bus is a tracked fleet vehicle. Route and Driver are unresolved
// identifiers, not object references.
type Bus struct {
	ID           string       `json:"id"`
	LicensePlate string       `json:"license_plate"`
	Name         string       `json:"name"`
	Status       BusStatus    `json:"status"`
	Route        string       `json:"route,omitempty"`
	Driver       string       `json:"driver,omitempty"`
	MovingTime   int64        `json:"moving_time"`
	ParkedTime   int64        `json:"parked_time"`
	IsFavorite   bool         `json:"is_favorite"`
	Position     *Coordinates `json:"position,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NormalizePlate uppercases and trims a license plate. Lookups and
// uniqueness checks operate on this form.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// NewBus constructs a validated Bus. The plate is normalized to uppercase.
// Any out-of-contract value returns a field-tagged ValidationError.
func NewBus(licensePlate, name, status, route, driver string) (*Bus, error) {
	plate := NormalizePlate(licensePlate)
	if err := ValidateLength("license_plate", plate, minPlateLength, maxPlateLength); err != nil {
		return nil, err
	}
	if err := ValidateLength("name", name, minBusNameLength, maxBusNameLength); err != nil {
		return nil, err
	}
	if status == "" {
		status = string(StatusParked)
	}
	if err := ValidateEnum("status", status, BusStatuses); err != nil {
		return nil, err
	}

	return &Bus{
		LicensePlate: plate,
		Name:         strings.TrimSpace(name),
		Status:       BusStatus(status),
		Route:        strings.TrimSpace(route),
		Driver:       strings.TrimSpace(driver),
	}, nil
}

// Rename updates the unit name, keeping the length invariant.
func (b *Bus) Rename(name string) error {
	if err := ValidateLength("name", name, minBusNameLength, maxBusNameLength); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	return nil
}

// SetStatus moves the bus to another allowed status.
func (b *Bus) SetStatus(status string) error {
	if err := ValidateEnum("status", status, BusStatuses); err != nil {
		return err
	}
	b.Status = BusStatus(status)
	return nil
}

// SetPosition records a full coordinate pair. A partially specified
// position never reaches this method; both values are validated together.
func (b *Bus) SetPosition(lat, lng float64) error {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return err
	}
	b.Position = &Coordinates{Latitude: lat, Longitude: lng}
	return nil
}

// ClearPosition removes the position entirely (distinct from 0,0).
func (b *Bus) ClearPosition() {
	b.Position = nil
}

// ToggleFavorite flips the favorite flag and nothing else.
func (b *Bus) ToggleFavorite() {
	b.IsFavorite = !b.IsFavorite
}

// AddMovingTime accumulates seconds spent moving; negative deltas are rejected.
func (b *Bus) AddMovingTime(seconds int64) error {
	if seconds < 0 {
		return NewValidationError("moving_time", "must not be negative")
	}
	b.MovingTime += seconds
	return nil
}

// AddParkedTime accumulates seconds spent parked; negative deltas are rejected.
func (b *Bus) AddParkedTime(seconds int64) error {
	if seconds < 0 {
		return NewValidationError("parked_time", "must not be negative")
	}
	b.ParkedTime += seconds
	return nil
}

// IsMoving reports whether the bus is currently moving.
func (b *Bus) IsMoving() bool { return b.Status == StatusMoving }

// IsParked reports whether the bus is currently parked.
func (b *Bus) IsParked() bool { return b.Status == StatusParked }

// InMaintenance reports whether the bus is under maintenance.
func (b *Bus) InMaintenance() bool { return b.Status == StatusMaintenance }
