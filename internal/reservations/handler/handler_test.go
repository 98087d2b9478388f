package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstay/internal/reservations/ledger"
	"eventstay/internal/reservations/repository"
	"eventstay/internal/reservations/service"
	"eventstay/internal/reservations/validator"
	"eventstay/pkg/clock"
	"eventstay/pkg/config"
	"eventstay/pkg/db/memory"
	apperrors "eventstay/pkg/errors"
	"eventstay/pkg/logger"
	"eventstay/pkg/model"
)

type envelope struct {
	Data       json.RawMessage `json:"data"`
	TotalCount int64           `json:"total_count"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
}

type testServer struct {
	router *httprouter.Router
	clock  *clock.Manual
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repos := repository.NewMemoryStore().Repositories()
	clk := clock.NewManual(time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC))
	uow := memory.NewUnitOfWork()
	cfg := &config.Config{
		HoldDuration: time.Hour,
		Event: model.EventConfig{
			EventName:                "Lagos Summit",
			VenueName:                "Eko Hotel",
			StartDate:                "2026-12-18",
			EndDate:                  "2026-12-21",
			DriverCostStandardPerDay: 50000,
			Currency:                 "NGN",
		},
		Log: logger.Discard(),
	}
	v := validator.NewReservationValidator(cfg.Log)

	reservations := service.NewReservationService(repos, uow, ledger.New(repos.Properties, repos.Holds, clk), v, nil, nil, clk, cfg)
	properties := service.NewPropertyService(repos, uow, v, nil, clk, cfg)

	router := httprouter.New()
	Routes{
		Reservations: NewReservationHandler(reservations, cfg.Log),
		Properties:   NewPropertyHandler(properties, cfg.Event, cfg.Log),
	}.RegisterRoutes(router)

	return &testServer{router: router, clock: clk}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) property(t *testing.T, units int) model.Property {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/properties", map[string]any{
		"title":           "Lagoon Villa",
		"price_per_night": 40000,
		"total_units":     units,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p model.Property
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func reservationBody(propertyID string, units int) map[string]any {
	return map[string]any{
		"property_id":    propertyID,
		"guest_name":     "Ada Obi",
		"check_in":       "2026-12-18T14:00:00Z",
		"check_out":      "2026-12-21T14:00:00Z",
		"units":          units,
		"driver_service": true,
	}
}

func (s *testServer) reserve(t *testing.T, propertyID string, units int) model.Booking {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/reservations", reservationBody(propertyID, units))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var b model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func TestCreateReservation(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 3)

	b := s.reserve(t, p.ID, 2)
	assert.Equal(t, model.StatusTemporary, b.Status)
	assert.Equal(t, model.Money(3*40000*2+3*50000), b.Price.Total)
	require.NotNil(t, b.ExpiresAt)

	rec, env := s.do(t, http.MethodGet, "/api/v1/properties/id/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after model.Property
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, 1, after.AvailableUnits)
}

func TestCreateReservation_Errors(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 1)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"sold out", reservationBody(p.ID, 2), http.StatusConflict, apperrors.CodeInsufficientInventory},
		{"unknown property", reservationBody("missing", 1), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"zero units", reservationBody(p.ID, 0), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"unknown field", map[string]any{"surprise": true}, http.StatusBadRequest, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/reservations", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestConfirmAndCancel(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 2)
	b := s.reserve(t, p.ID, 1)

	rec, env := s.do(t, http.MethodPost, "/api/v1/reservations/id/"+b.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var confirmed model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)
	assert.Nil(t, confirmed.ExpiresAt)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/reservations/id/"+b.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/reservations/id/"+b.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeAlreadyTerminal, env.Code)
}

func TestConfirm_AfterHoldLapsed(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 1)
	b := s.reserve(t, p.ID, 1)

	s.clock.Advance(time.Hour)

	rec, env := s.do(t, http.MethodPost, "/api/v1/reservations/id/"+b.ID+"/confirm", nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, apperrors.CodeHoldExpired, env.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/reservations/id/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var expired model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &expired))
	assert.Equal(t, model.StatusExpired, expired.Status)
}

func TestGetReservation_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec, env := s.do(t, http.MethodGet, "/api/v1/reservations/id/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, env.Code)
}

func TestListReservations(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 5)
	first := s.reserve(t, p.ID, 1)
	s.reserve(t, p.ID, 1)
	s.do(t, http.MethodPost, "/api/v1/reservations/id/"+first.ID+"/confirm", nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/reservations?status=confirmed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.TotalCount)

	rec, env = s.do(t, http.MethodGet, "/api/v1/reservations?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), env.TotalCount)
	var page []model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reservations?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/reservations?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActive(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 5)
	s.reserve(t, p.ID, 1)
	s.reserve(t, p.ID, 2)

	rec, env := s.do(t, http.MethodGet, "/api/v1/properties/id/"+p.ID+"/reservations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Len(t, active, 2)

	s.clock.Advance(2 * time.Hour)
	_, env = s.do(t, http.MethodGet, "/api/v1/properties/id/"+p.ID+"/reservations", nil)
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Empty(t, active)
}

func TestQuote(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 1)

	body := reservationBody(p.ID, 1)
	delete(body, "guest_name")
	body["car_tier"] = "luxury"

	rec, env := s.do(t, http.MethodPost, "/api/v1/quotes", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.True(t, q.QuotePending)
	assert.Equal(t, model.Money(120000), q.Total)
	require.NotNil(t, q.Driver)
	assert.True(t, q.Driver.IsQuoteRequired())

	_, env = s.do(t, http.MethodGet, "/api/v1/properties/id/"+p.ID, nil)
	var after model.Property
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, 1, after.AvailableUnits)
}

func TestOverrideAndAudit(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 4)
	s.reserve(t, p.ID, 1)

	rec, env := s.do(t, http.MethodGet, "/api/v1/properties/id/"+p.ID+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var audit model.InventoryAudit
	require.NoError(t, json.Unmarshal(env.Data, &audit))
	assert.True(t, audit.Balanced)

	rec, env = s.do(t, http.MethodPut, "/api/v1/properties/id/"+p.ID+"/units", map[string]any{
		"total_units":     6,
		"available_units": 6,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &audit))
	assert.False(t, audit.Balanced)
	assert.Equal(t, 1, audit.Drift)
}

func TestStatsAndEvent(t *testing.T) {
	s := newTestServer(t)
	p := s.property(t, 3)
	s.reserve(t, p.ID, 1)

	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalProperties)

	rec, env = s.do(t, http.MethodGet, "/api/v1/event", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var event model.EventConfig
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, "Lagos Summit", event.EventName)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec, env := s.do(t, http.MethodGet, "/api/v1/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, env.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/reservations", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		check  ReadinessCheck
		status int
		want   string
	}{
		{"memory backend", nil, http.StatusOK, "ready"},
		{"database up", func(context.Context) error { return nil }, http.StatusOK, "ready"},
		{"database down", func(context.Context) error { return errors.New("no reachable servers") }, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(tt.check, logger.Discard()).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Status)

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestLogWrite_RecordsFailedResponse(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	logWrite(log, "GetByID", nil)
	assert.Zero(t, buf.Len())

	logWrite(log, "GetByID", errors.New("broken pipe"))
	assert.Contains(t, buf.String(), "failed to write response")
	assert.Contains(t, buf.String(), "GetByID")
	assert.Contains(t, buf.String(), "broken pipe")
}
