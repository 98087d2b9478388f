package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "eventstay/pkg/errors"
	httputil "eventstay/pkg/http"
	"eventstay/pkg/logger"
)

// Routes groups the API handlers so the host can register them as one.
type Routes struct {
	Reservations *ReservationHandler
	Properties   *PropertyHandler
}

func (rt Routes) RegisterRoutes(router *httprouter.Router) {
	rt.Reservations.RegisterRoutes(router)
	rt.Properties.RegisterRoutes(router)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		logWrite(rt.Reservations.log, "NotFound", httputil.WriteError(w, apperrors.NotFound("Route")))
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		logWrite(rt.Reservations.log, "MethodNotAllowed",
			httputil.WriteError(w, apperrors.New("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)))
	})
}

// logWrite records a response that failed after its status was sent.
func logWrite(log *logger.Logger, handler string, err error) {
	if err != nil {
		log.Error("failed to write response", "handler", handler, "error", err)
	}
}
