package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"eventstay/internal/reservations/handler"
	"eventstay/pkg/config"
	"eventstay/pkg/contracts"
	"eventstay/pkg/middleware"
	"eventstay/pkg/observability"
)

type shutdownHook struct {
	name string
	fn   func(context.Context) error
}

type Application struct {
	cfg              *config.Config
	server           *http.Server
	metrics          *observability.Metrics
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.KeyedRateLimiter
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
	workers          []contracts.Worker
	hooks            []shutdownHook
	cancelWorkers    context.CancelFunc
}

func NewApplication(cfg *config.Config, metrics *observability.Metrics) *Application {
	return &Application{cfg: cfg, metrics: metrics}
}

func (a *Application) SetApp(ready handler.ReadinessCheck, appHandler contracts.Handler) {
	a.setHealthHandler(ready)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// AddWorker registers a background loop started by Run.
func (a *Application) AddWorker(w contracts.Worker) {
	a.workers = append(a.workers, w)
}

// OnShutdown registers cleanup run after the server has drained, in
// registration order.
func (a *Application) OnShutdown(name string, fn func(context.Context) error) {
	a.hooks = append(a.hooks, shutdownHook{name: name, fn: fn})
}

func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler(ready handler.ReadinessCheck) {
	healthRouter := httprouter.New()
	handler.NewHealthHandler(ready, a.cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	if a.cfg.IdempotencyBackend == config.IdempotencyRedis && a.cfg.Client != nil && a.cfg.Client.Redis != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(a.cfg.Client.Redis, a.cfg.IdempotencyTTL)
	} else {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	}
	a.rateLimiter = middleware.NewKeyedRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.ClientIPExtractor,
		a.cfg.Log,
	)

	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.Idempotency(a.idempotencyStore, a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = middleware.Metrics(a.metrics)(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHTTPHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack",
		"idempotency_backend", a.cfg.IdempotencyBackend,
	)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	if a.cfg.MetricsEnabled && a.metrics != nil {
		mux.Handle("/metrics", a.metrics.Handler())
	}
	mux.Handle("/", a.appHTTPHandler)

	traced := otelhttp.NewHandler(mux, "eventstay",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !isHealthPath(r.URL.Path)
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + middleware.RouteLabel(r.URL.Path)
		}),
	)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      traced,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port, "metrics", a.cfg.MetricsEnabled)
}

func isHealthPath(path string) bool {
	return path == "/health" || path == "/ready" || strings.HasPrefix(path, "/metrics")
}

func (a *Application) startWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelWorkers = cancel
	for _, w := range a.workers {
		w.Start(ctx)
	}
	a.cfg.Log.Info("Background workers started", "count", len(a.workers))
}

func (a *Application) Run() {
	a.startWorkers()

	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.stopWorkers()
			a.runHooks()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) stopWorkers() {
	a.cfg.Log.Info("Stopping background workers...")
	if a.cancelWorkers != nil {
		a.cancelWorkers()
	}
	for _, w := range a.workers {
		w.Stop()
	}
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	a.cfg.Log.Info("Background workers stopped")
}

func (a *Application) runHooks() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	for _, h := range a.hooks {
		if err := h.fn(ctx); err != nil {
			a.cfg.Log.Error("Shutdown step failed", "step", h.name, "error", err)
			continue
		}
		a.cfg.Log.Info("Shutdown step completed", "step", h.name)
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.runHooks()
	a.cfg.Log.Info("Server stopped gracefully")
}
