package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for one scribe process
type Metrics struct {
	// Gateway metrics
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	NetworkErrors   *prometheus.CounterVec
	Unauthorized    prometheus.Counter

	// Session metrics
	SessionTransitions *prometheus.CounterVec

	// Command execution metrics
	CommandExecutions *prometheus.CounterVec

	// Errors surfaced to the user, by taxonomy kind
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with registry
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_api_requests_total",
				Help: "Total number of API requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_api_request_duration_seconds",
				Help:    "API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 15.0},
			},
			[]string{"method", "route"},
		),
		NetworkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_api_network_errors_total",
				Help: "Total number of API requests that received no response",
			},
			[]string{"route", "timeout"},
		),
		Unauthorized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scribe_api_unauthorized_total",
				Help: "Total number of 401 responses that forced a logout",
			},
		),
		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_session_transitions_total",
				Help: "Total number of session state changes",
			},
			[]string{"state"},
		),
		CommandExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_command_executions_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "success"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_errors_total",
				Help: "Total number of errors shown to the user by kind",
			},
			[]string{"kind", "component"},
		),
	}
}

// RecordRequest records a completed request. status is 0 when no response arrived.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordNetworkError records a request that never got a response
func (m *Metrics) RecordNetworkError(route string, timeout bool) {
	if m == nil {
		return
	}
	m.NetworkErrors.WithLabelValues(route, strconv.FormatBool(timeout)).Inc()
}

// RecordUnauthorized records a forced logout
func (m *Metrics) RecordUnauthorized() {
	if m == nil {
		return
	}
	m.Unauthorized.Inc()
}

// RecordSession records a transition to state ("authenticated", "anonymous", "loading")
func (m *Metrics) RecordSession(state string) {
	if m == nil {
		return
	}
	m.SessionTransitions.WithLabelValues(state).Inc()
}

// RecordCommand records a finished command
func (m *Metrics) RecordCommand(command string, success bool) {
	if m == nil {
		return
	}
	m.CommandExecutions.WithLabelValues(command, strconv.FormatBool(success)).Inc()
}

// RecordError records an error of kind surfaced by component
func (m *Metrics) RecordError(kind, component string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(kind, component).Inc()
}
