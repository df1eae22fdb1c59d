package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses (rendered by the central error handler; declared here for the
// swagger annotations).
type errorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Request types ---

// positionRequest carries a full coordinate pair. Both axes are pointers so
// a missing value is rejected while a legitimate zero still passes; range
// checks live in the domain layer so the error can name the offending axis.
type positionRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

type createBusRequest struct {
	LicensePlate string           `json:"license_plate" validate:"required,min=3,max=20"`
	Name         string           `json:"name"          validate:"required,min=1,max=50"`
	Status       string           `json:"status"        validate:"omitempty,oneof=parked moving maintenance"`
	Route        string           `json:"route"`
	Driver       string           `json:"driver"`
	Position     *positionRequest `json:"position"`
}

// updateBusRequest mirrors ports.UpdateBusInput: every field optional,
// absent fields untouched. Unknown JSON keys are dropped at decode time
// and can never reach the model.
type updateBusRequest struct {
	Name       *string `json:"name"        validate:"omitempty,min=1,max=50"`
	Status     *string `json:"status"      validate:"omitempty,oneof=parked moving maintenance"`
	Route      *string `json:"route"`
	Driver     *string `json:"driver"`
	MovingTime *int64  `json:"moving_time"`
	ParkedTime *int64  `json:"parked_time"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type busResponse struct {
	ID           string            `json:"id"`
	LicensePlate string            `json:"license_plate"`
	Name         string            `json:"name"`
	Status       string            `json:"status"`
	Route        string            `json:"route,omitempty"`
	Driver       string            `json:"driver,omitempty"`
	MovingTime   int64             `json:"moving_time"`
	ParkedTime   int64             `json:"parked_time"`
	IsFavorite   bool              `json:"is_favorite"`
	Position     *positionResponse `json:"position,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64  `json:"total,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages,omitempty"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type listBusesResponse struct {
	Data       []busResponse      `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
