package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay
type Metrics struct {
	Events           *prometheus.CounterVec
	Identifies       prometheus.Counter
	SanitizeDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		Events: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veil_events_total",
			Help: "Tracking calls by declared class and pipeline outcome",
		}, []string{"class", "outcome"}),
		Identifies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veil_identifies_total",
			Help: "Identify operations handed to the sink",
		}),
		SanitizeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veil_sanitize_duration_seconds",
			Help:    "Latency of the synchronous sanitize hook",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
		}),
	}
}

// ObserveEvent records the outcome of one tracking call.
func (m *Metrics) ObserveEvent(class, outcome string) {
	m.Events.WithLabelValues(class, outcome).Inc()
}

// ObserveSanitize records one sanitize hook invocation.
func (m *Metrics) ObserveSanitize(d time.Duration) {
	m.SanitizeDuration.Observe(d.Seconds())
}

// ObserveIdentify records one identify handed to the sink.
func (m *Metrics) ObserveIdentify() {
	m.Identifies.Inc()
}
