package handler

import (
	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// toBusResponse maps the domain model to the transport representation.
func toBusResponse(b *domain.Bus) busResponse {
	resp := busResponse{
		ID:           b.ID,
		LicensePlate: b.LicensePlate,
		Name:         b.Name,
		Status:       string(b.Status),
		Route:        b.Route,
		Driver:       b.Driver,
		MovingTime:   b.MovingTime,
		ParkedTime:   b.ParkedTime,
		IsFavorite:   b.IsFavorite,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Position != nil {
		resp.Position = &positionResponse{
			Latitude:  b.Position.Latitude,
			Longitude: b.Position.Longitude,
		}
	}
	return resp
}

// toListResponse maps one result page to the {data, pagination} envelope.
func toListResponse(page *ports.BusPage) listBusesResponse {
	items := make([]busResponse, 0, len(page.Items))
	for _, b := range page.Items {
		items = append(items, toBusResponse(b))
	}
	return listBusesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
			HasMore:    page.HasMore,
			NextCursor: page.NextCursor,
		},
	}
}

// toCreateInput maps the create request to the service DTO.
func toCreateInput(req createBusRequest) ports.CreateBusInput {
	input := ports.CreateBusInput{
		LicensePlate: req.LicensePlate,
		Name:         req.Name,
		Status:       req.Status,
		Route:        req.Route,
		Driver:       req.Driver,
	}
	if req.Position != nil {
		input.Position = &ports.CoordinatesInput{
			Latitude:  *req.Position.Lat,
			Longitude: *req.Position.Lng,
		}
	}
	return input
}

// toUpdateInput maps the patch request onto the allow-listed update struct.
func toUpdateInput(req updateBusRequest) ports.UpdateBusInput {
	return ports.UpdateBusInput{
		Name:       req.Name,
		Status:     req.Status,
		Route:      req.Route,
		Driver:     req.Driver,
		MovingTime: req.MovingTime,
		ParkedTime: req.ParkedTime,
	}
}
