package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "eventstay/pkg/http"
	"eventstay/pkg/logger"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// ReadinessCheck pings the storage backend. A nil check means the service
// has no external storage and is ready as soon as it is up.
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	check ReadinessCheck
	log   *logger.Logger
}

func NewHealthHandler(check ReadinessCheck, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		check: check,
		log:   log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	logWrite(h.log, "Health", httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}))
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.check == nil {
		logWrite(h.log, "Ready", httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ready", Database: "memory"}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.check(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		logWrite(h.log, "Ready", httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "error",
		}))
		return
	}

	logWrite(h.log, "Ready", httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ready",
		Database: "ok",
	}))
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
