package scraper

import (
	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts per-category aggregate outcomes. A nil *Metrics records nothing.
type Metrics struct {
	CategoryOutcomes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CategoryOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vitigest",
				Subsystem: "aggregate",
				Name:      "category_outcomes_total",
				Help:      "Category extractions run by aggregates, by domain and outcome",
			},
			[]string{"domain", "outcome"},
		),
	}
}

func (m *Metrics) category(d catalog.Domain, ok bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "success"
	}
	m.CategoryOutcomes.WithLabelValues(string(d), outcome).Inc()
}
