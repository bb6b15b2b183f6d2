package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics groups every collector the service exports.
type Metrics struct {
	Mutations          *prometheus.CounterVec
	PersistDuration    prometheus.Histogram
	LoadRecoveries     *prometheus.CounterVec
	RemindersScheduled *prometheus.CounterVec
	RemindersFired     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	HTTPRejected       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_store_mutations_total",
			Help: "Store mutations by operation and result",
		}, []string{"op", "result"}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "memarch_persist_duration_seconds",
			Help:    "Duration of persistence writes",
			Buckets: latencyBuckets,
		}),
		LoadRecoveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_load_recoveries_total",
			Help: "Malformed persisted entries replaced by defaults on load",
		}, []string{"key"}),
		RemindersScheduled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_reminders_scheduled_total",
			Help: "Reminders scheduled by kind",
		}, []string{"kind"}),
		RemindersFired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_reminders_fired_total",
			Help: "Reminders delivered by kind",
		}, []string{"kind"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memarch_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: latencyBuckets,
		}, []string{"method", "route"}),
		HTTPRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "memarch_http_rejected_total",
			Help: "Requests refused before reaching a handler, by guard and path",
		}, []string{"guard", "path"}),
	}
}

// ObserveRejected records a request refused by guard ("rate_limit", "cidr").
func (m *Metrics) ObserveRejected(guard, path string) {
	if m == nil {
		return
	}
	m.HTTPRejected.WithLabelValues(guard, path).Inc()
}

// Discard returns collectors registered nowhere, for tests and tools.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveMutation records the outcome of a store mutation.
func (m *Metrics) ObserveMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

// ObservePersist records a persistence write started at start.
func (m *Metrics) ObservePersist(start time.Time) {
	m.PersistDuration.Observe(time.Since(start).Seconds())
}
