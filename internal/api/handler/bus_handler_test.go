package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetpulse/fleet-tracking/internal/core/domain"
	"github.com/fleetpulse/fleet-tracking/internal/core/ports"
)

// stubBusService returns canned results and records the inputs it saw.
type stubBusService struct {
	bus  *domain.Bus
	page *ports.BusPage
	err  error

	gotCreate   ports.CreateBusInput
	gotList     ports.ListBusesInput
	gotUpdate   ports.UpdateBusInput
	gotID       string
	gotLat      float64
	gotLng      float64
	deleteCalls int
}

func (s *stubBusService) Create(_ context.Context, input ports.CreateBusInput) (*domain.Bus, error) {
	s.gotCreate = input
	return s.bus, s.err
}

func (s *stubBusService) Get(_ context.Context, id string) (*domain.Bus, error) {
	s.gotID = id
	return s.bus, s.err
}

func (s *stubBusService) List(_ context.Context, input ports.ListBusesInput) (*ports.BusPage, error) {
	s.gotList = input
	return s.page, s.err
}

func (s *stubBusService) Update(_ context.Context, id string, input ports.UpdateBusInput) (*domain.Bus, error) {
	s.gotID, s.gotUpdate = id, input
	return s.bus, s.err
}

func (s *stubBusService) UpdatePosition(_ context.Context, id string, lat, lng float64) (*domain.Bus, error) {
	s.gotID, s.gotLat, s.gotLng = id, lat, lng
	if s.err != nil {
		return nil, s.err
	}
	return s.bus, nil
}

func (s *stubBusService) ToggleFavorite(_ context.Context, id string) (*domain.Bus, error) {
	s.gotID = id
	return s.bus, s.err
}

func (s *stubBusService) Delete(_ context.Context, id string) error {
	s.gotID = id
	s.deleteCalls++
	return s.err
}

func sampleBus() *domain.Bus {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Bus{
		ID:           "b1",
		LicensePlate: "FLT-001",
		Name:         "Unit 1",
		Status:       domain.StatusParked,
		Route:        "R42",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestBusHandler_Create(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/buses",
		`{"license_plate":"flt-001","name":"Unit 1","route":"R42","position":{"lat":19.4,"lng":-99.1}}`), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.gotCreate.LicensePlate != "flt-001" {
		t.Fatalf("service received %+v", svc.gotCreate)
	}
	if svc.gotCreate.Position == nil || svc.gotCreate.Position.Latitude != 19.4 {
		t.Fatalf("position not forwarded: %+v", svc.gotCreate.Position)
	}

	var body busResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "b1" || body.LicensePlate != "FLT-001" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestBusHandler_Create_InvalidPayload(t *testing.T) {
	h := NewBusHandler(&stubBusService{})
	e := newEcho()

	cases := []struct {
		name string
		body string
	}{
		{"missing plate", `{"name":"Unit 1"}`},
		{"short plate", `{"license_plate":"ab","name":"Unit 1"}`},
		{"bad status", `{"license_plate":"FLT-001","name":"Unit 1","status":"flying"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(jsonRequest(http.MethodPost, "/buses", tc.body), httptest.NewRecorder())
			err := h.Create(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestBusHandler_Create_DuplicatePlate(t *testing.T) {
	h := NewBusHandler(&stubBusService{err: domain.ErrPlateTaken})
	e := newEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/buses",
		`{"license_plate":"FLT-001","name":"Unit 1"}`), httptest.NewRecorder())

	if err := h.Create(c); !errors.Is(err, domain.ErrPlateTaken) {
		t.Fatalf("expected ErrPlateTaken passed through, got %v", err)
	}
}

func TestBusHandler_Get(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/buses/b1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.gotID != "b1" {
		t.Fatalf("expected 200 for b1, got %d (%q)", rec.Code, svc.gotID)
	}
}

func TestBusHandler_List_ParsesQuery(t *testing.T) {
	svc := &stubBusService{page: &ports.BusPage{
		Items:      []*domain.Bus{sampleBus()},
		Total:      12,
		Page:       2,
		Limit:      5,
		TotalPages: 3,
		HasMore:    true,
	}}
	h := NewBusHandler(svc)

	q := url.Values{}
	q.Set("page", "2")
	q.Set("limit", "5")
	q.Set("status", "parked")
	q.Set("favorite", "true")

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/buses?"+q.Encode(), nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.gotList.Page != 2 || svc.gotList.Limit != 5 || svc.gotList.Status != "parked" {
		t.Fatalf("query not forwarded: %+v", svc.gotList)
	}
	if svc.gotList.Favorite == nil || !*svc.gotList.Favorite {
		t.Fatalf("favorite filter not forwarded: %+v", svc.gotList.Favorite)
	}

	var body listBusesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pagination.Total != 12 || body.Pagination.TotalPages != 3 || !body.Pagination.HasMore {
		t.Fatalf("unexpected pagination %+v", body.Pagination)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Data))
	}
}

func TestBusHandler_List_BadFavorite(t *testing.T) {
	h := NewBusHandler(&stubBusService{})
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/buses?favorite=maybe", nil), httptest.NewRecorder())

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestBusHandler_List_CursorMode(t *testing.T) {
	svc := &stubBusService{page: &ports.BusPage{
		Items:      []*domain.Bus{sampleBus()},
		Limit:      5,
		HasMore:    true,
		NextCursor: "b2",
	}}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/buses?cursor=b1&limit=5", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.gotList.Cursor != "b1" {
		t.Fatalf("cursor not forwarded: %+v", svc.gotList)
	}

	var body listBusesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pagination.NextCursor != "b2" || !body.Pagination.HasMore {
		t.Fatalf("unexpected pagination %+v", body.Pagination)
	}
	if body.Pagination.Total != 0 || body.Pagination.TotalPages != 0 {
		t.Fatalf("cursor mode must not report totals: %+v", body.Pagination)
	}
}

func TestBusHandler_Update(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/buses/b1",
		`{"name":"Unit 1 Renamed","status":"moving"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.gotUpdate.Name == nil || *svc.gotUpdate.Name != "Unit 1 Renamed" {
		t.Fatalf("name not forwarded: %+v", svc.gotUpdate)
	}
	if svc.gotUpdate.Status == nil || *svc.gotUpdate.Status != "moving" {
		t.Fatalf("status not forwarded: %+v", svc.gotUpdate)
	}
	if svc.gotUpdate.Route != nil || svc.gotUpdate.Driver != nil {
		t.Fatalf("absent fields must stay nil: %+v", svc.gotUpdate)
	}
}

func TestBusHandler_UpdatePosition(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/buses/b1/position",
		`{"lat":19.4326,"lng":0}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.UpdatePosition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.gotLat != 19.4326 || svc.gotLng != 0 {
		t.Fatalf("coordinates not forwarded: %g/%g", svc.gotLat, svc.gotLng)
	}
}

func TestBusHandler_UpdatePosition_PartialPairRejected(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)
	e := newEcho()

	cases := []struct {
		name string
		body string
	}{
		{"latitude only", `{"lat":45}`},
		{"longitude only", `{"lng":-99.1}`},
		{"empty object", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(jsonRequest(http.MethodPatch, "/buses/b1/position", tc.body), httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues("b1")

			err := h.UpdatePosition(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError for partial pair, got %v", err)
			}
			if svc.gotID != "" {
				t.Fatalf("partial pair must never reach the service")
			}
		})
	}
}

func TestBusHandler_Create_PartialPositionRejected(t *testing.T) {
	svc := &stubBusService{bus: sampleBus()}
	h := NewBusHandler(svc)
	e := newEcho()

	c := e.NewContext(jsonRequest(http.MethodPost, "/buses",
		`{"license_plate":"FLT-001","name":"Unit 1","position":{"lat":45}}`), httptest.NewRecorder())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError for partial position, got %v", err)
	}
	if svc.gotCreate.LicensePlate != "" {
		t.Fatalf("partial position must never reach the service")
	}
}

func TestBusHandler_UpdatePosition_OutOfRange(t *testing.T) {
	svc := &stubBusService{err: domain.NewValidationError("latitude", "must be between -90 and 90")}
	h := NewBusHandler(svc)

	e := newEcho()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/buses/b1/position",
		`{"lat":91,"lng":0}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("b1")

	err := h.UpdatePosition(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "latitude" {
		t.Fatalf("expected latitude ValidationError passed through, got %v", err)
	}
}

func TestBusHandler_ToggleFavorite(t *testing.T) {
	bus := sampleBus()
	bus.IsFavorite = true
	svc := &stubBusService{bus: bus}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPatch, "/buses/b1/favorite", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.ToggleFavorite(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body busResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.IsFavorite {
		t.Fatalf("expected favorited bus in response")
	}
}

func TestBusHandler_Delete(t *testing.T) {
	svc := &stubBusService{}
	h := NewBusHandler(svc)

	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/buses/b1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.deleteCalls != 1 || svc.gotID != "b1" {
		t.Fatalf("delete not forwarded: calls=%d id=%q", svc.deleteCalls, svc.gotID)
	}
}

func TestBusHandler_Delete_NotFound(t *testing.T) {
	h := NewBusHandler(&stubBusService{err: domain.ErrBusNotFound})
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/buses/missing", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); !errors.Is(err, domain.ErrBusNotFound) {
		t.Fatalf("expected ErrBusNotFound passed through, got %v", err)
	}
}
