package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "vitigest"
	metricsSubsystem = "fetch"

	outcomeSuccess = "success"
	outcomeStatus  = "bad_status"
	outcomeError   = "error"
)

// Metrics holds the Prometheus collectors for upstream requests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Attempts        *prometheus.CounterVec
	AttemptDuration prometheus.Histogram
	Exhausted       prometheus.Counter
}

// NewMetrics creates and registers fetch metrics on reg, or on the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "attempts_total",
				Help:      "Upstream GET attempts by outcome",
			},
			[]string{"outcome"},
		),
		AttemptDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "attempt_duration_seconds",
				Help:      "Duration of a single upstream GET attempt",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		Exhausted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "exhausted_total",
				Help:      "Fetches that failed after every attempt",
			},
		),
	}
}

func (m *Metrics) attempt(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
	m.AttemptDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) exhausted() {
	if m == nil {
		return
	}
	m.Exhausted.Inc()
}
