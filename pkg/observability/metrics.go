package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "eventstay"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	reservations *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	swept        prometheus.Counter
	available    *prometheus.GaugeVec
	overrides    *prometheus.CounterVec

	kafkaMessages *prometheus.CounterVec
	kafkaDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by route and status.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reservation_requests_total",
			Help:      "Reservation attempts by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking state changes.",
		}, []string{"from", "to"}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "holds_expired_total",
			Help:      "Temporary holds released by the expiry sweep.",
		}),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "property_available_units",
			Help:      "Last observed available units per property.",
		}, []string{"property_id"}),
		overrides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "inventory_overrides_total",
			Help:      "Administrative unit overrides, by whether they left the ledger balanced.",
		}, []string{"balanced"}),
		kafkaMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages produced or consumed, by result.",
		}, []string{"direction", "result"}),
		kafkaDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time spent publishing or handling a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.durations,
		m.reservations, m.transitions, m.swept, m.available, m.overrides,
		m.kafkaMessages, m.kafkaDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// All recorders below accept a nil receiver so callers can run without metrics.

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ReservationOutcome(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) HoldsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.swept.Add(float64(n))
}

func (m *Metrics) AvailableUnits(propertyID string, units int) {
	if m == nil {
		return
	}
	m.available.WithLabelValues(propertyID).Set(float64(units))
}

func (m *Metrics) Override(balanced bool) {
	if m == nil {
		return
	}
	label := "false"
	if balanced {
		label = "true"
	}
	m.overrides.WithLabelValues(label).Inc()
}

func (m *Metrics) KafkaMessage(direction string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.kafkaMessages.WithLabelValues(direction, result).Inc()
	m.kafkaDuration.WithLabelValues(direction).Observe(elapsed.Seconds())
}
