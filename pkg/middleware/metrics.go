package middleware

import (
	"net/http"
	"strings"
	"time"

	"eventstay/pkg/observability"
)

// Metrics records request count and latency per route template.
func Metrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			m.ObserveRequest(RouteLabel(r.URL.Path), r.Method, wrapped.statusCode, time.Since(start))
		})
	}
}

// RouteLabel collapses the identifier after an "id" segment so labels stay
// bounded: /api/v1/reservations/id/42/confirm becomes
// /api/v1/reservations/id/:id/confirm.
func RouteLabel(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "id" && segments[i+1] != "" {
			segments[i+1] = ":id"
			i++
		}
	}
	return strings.Join(segments, "/")
}
