package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewMetrics()

	m.ReservationOutcome("reserved")
	m.ReservationOutcome("reserved")
	m.ReservationOutcome("sold_out")
	m.Transition("temporary", "confirmed")
	m.HoldsExpired(3)
	m.HoldsExpired(0)
	m.AvailableUnits("p1", 7)
	m.Override(false)
	m.KafkaMessage("produce", errors.New("down"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("reserved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservations.WithLabelValues("sold_out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("temporary", "confirmed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.swept))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.available.WithLabelValues("p1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.overrides.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kafkaMessages.WithLabelValues("produce", "error")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReservationOutcome("reserved")
		m.Transition("a", "b")
		m.HoldsExpired(1)
		m.AvailableUnits("p", 1)
		m.Override(true)
		m.KafkaMessage("consume", nil, 0)
		m.ObserveRequest("/", http.MethodGet, 200, 0)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/api/v1/reservations", http.MethodPost, http.StatusCreated, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eventstay_http_requests_total")
}

func TestSetupTracing_NoEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "test", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	headers := map[string]string{}
	InjectHeaders(context.Background(), headers)
	assert.NotNil(t, ExtractHeaders(context.Background(), headers))
}
