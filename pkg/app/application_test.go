package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstay/pkg/config"
	"eventstay/pkg/logger"
	"eventstay/pkg/observability"
)

type echoRoutes struct {
	calls int
}

func (e *echoRoutes) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		e.calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":"ok"}`))
	})
}

type fakeWorker struct {
	started, stopped bool
}

func (f *fakeWorker) Start(context.Context) { f.started = true }
func (f *fakeWorker) Stop()                 { f.stopped = true }

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Hour,
		IdempotencyBackend: config.IdempotencyMemory,
		MaxRequestSize:     1 << 10,
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		IdleTimeout:        time.Second,
		ShutdownTimeout:    time.Second,
		MetricsEnabled:     true,
		Log:                logger.Discard(),
	}
}

func newTestApp(t *testing.T) (*Application, *echoRoutes) {
	t.Helper()
	routes := &echoRoutes{}
	a := NewApplication(testConfig(), observability.NewMetrics())
	a.SetApp(nil, routes)
	t.Cleanup(a.stopWorkers)
	return a, routes
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApplication_HealthEndpoints(t *testing.T) {
	a, _ := newTestApp(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestApplication_IdempotentPost(t *testing.T) {
	a, routes := newTestApp(t)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "abc")
		return serve(a, req)
	}

	assert.Equal(t, http.StatusCreated, post().Code)
	second := post()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, routes.calls)
}

func TestApplication_RejectsNonJSON(t *testing.T) {
	a, routes := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(a, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, routes.calls)
}

func TestApplication_Metrics(t *testing.T) {
	a, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	serve(a, req)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eventstay_http_requests_total")
}

func TestApplication_WorkersAndHooks(t *testing.T) {
	a, _ := newTestApp(t)
	w := &fakeWorker{}
	a.AddWorker(w)

	var order []string
	a.OnShutdown("first", func(context.Context) error {
		order = append(order, "first")
		return errors.New("ignored")
	})
	a.OnShutdown("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	a.startWorkers()
	assert.True(t, w.started)

	a.stopWorkers()
	a.runHooks()
	assert.True(t, w.stopped)
	assert.Equal(t, []string{"first", "second"}, order)
}
