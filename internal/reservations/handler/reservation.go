package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventstay/internal/reservations/service"
	httputil "eventstay/pkg/http"
	"eventstay/pkg/logger"
	"eventstay/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logWrite(h.log, "Create", httputil.WriteError(w, err))
		return
	}

	booking, err := h.service.CreateReservation(r.Context(), &req)
	if err != nil {
		logWrite(h.log, "Create", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Create", httputil.WriteCreated(w, booking))
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetReservation(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "GetByID", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "GetByID", httputil.WriteSuccess(w, booking))
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		logWrite(h.log, "GetAll", httputil.WriteError(w, err))
		return
	}

	bookings, total, err := h.service.ListReservations(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		logWrite(h.log, "GetAll", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "GetAll", httputil.WritePaginated(w, bookings, total, limit, offset))
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Confirm(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "Confirm", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Confirm", httputil.WriteSuccess(w, booking))
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "Cancel", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Cancel", httputil.WriteSuccess(w, booking))
}

func (h *ReservationHandler) ListActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListActive(r.Context(), ps.ByName("id"))
	if err != nil {
		logWrite(h.log, "ListActive", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "ListActive", httputil.WriteSuccess(w, bookings))
}

func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.QuoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logWrite(h.log, "Quote", httputil.WriteError(w, err))
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		logWrite(h.log, "Quote", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Quote", httputil.WriteSuccess(w, quote))
}

func (h *ReservationHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		logWrite(h.log, "Stats", httputil.WriteError(w, err))
		return
	}

	logWrite(h.log, "Stats", httputil.WriteSuccess(w, stats))
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.POST("/api/v1/reservations/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/reservations/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/properties/id/:id/reservations", h.ListActive)
	router.POST("/api/v1/quotes", h.Quote)
	router.GET("/api/v1/admin/stats", h.Stats)
}
