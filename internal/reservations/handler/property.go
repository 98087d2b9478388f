package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventstay/internal/reservations/service"
	httputil "eventstay/pkg/http"
	"eventstay/pkg/logger"
	"eventstay/pkg/model"
)

type PropertyHandler struct {
	service service.PropertyService
	event   model.EventConfig
	log     *logger.Logger
}

func NewPropertyHandler(service service.PropertyService, event model.EventConfig, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		event:   event,
		log:     log,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PropertyCreate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logWrite(h.log, "Create", httputil.WriteError(w, err))
		return
	}

	property, err := h.service.CreateProperty(r.Context(), &req)
	if err != nil {
		logWrite(h.log, "Create", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Create", httputil.WriteCreated(w, property))
}

func (h *PropertyHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		logWrite(h.log, "GetAll", httputil.WriteError(w, err))
		return
	}

	properties, total, err := h.service.ListProperties(r.Context(), limit, offset)
	if err != nil {
		logWrite(h.log, "GetAll", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "GetAll", httputil.WritePaginated(w, properties, total, limit, offset))
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.GetProperty(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "GetByID", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "GetByID", httputil.WriteSuccess(w, property))
}

// OverrideUnits is the admin escape hatch; the response is the audit taken
// right after the write.
func (h *PropertyHandler) OverrideUnits(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.UnitsOverride
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logWrite(h.log, "OverrideUnits", httputil.WriteError(w, err))
		return
	}

	audit, err := h.service.OverrideUnits(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		logWrite(h.log, "OverrideUnits", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "OverrideUnits", httputil.WriteSuccess(w, audit))
}

func (h *PropertyHandler) Audit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	audit, err := h.service.Audit(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "Audit", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Audit", httputil.WriteSuccess(w, audit))
}

func (h *PropertyHandler) EventConfig(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	logWrite(h.log, "EventConfig", httputil.WriteSuccess(w, h.event))
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties", h.Create)
	router.GET("/api/v1/properties", h.GetAll)
	router.GET("/api/v1/properties/id/:id", h.GetByID)
	router.PUT("/api/v1/properties/id/:id/units", h.OverrideUnits)
	router.GET("/api/v1/properties/id/:id/audit", h.Audit)
	router.GET("/api/v1/event", h.EventConfig)
}
