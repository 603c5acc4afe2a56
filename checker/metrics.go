package checker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics recorded during a run. A nil *Metrics
// records nothing.
type Metrics struct {
	checked  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics creates the run metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		checked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkchecker_links_checked_total",
			Help: "Links validated, by result code.",
		}, []string{"code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkchecker_request_duration_seconds",
			Help:    "Time spent validating a single link, by result code.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"code"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "linkchecker_requests_in_flight",
			Help: "Validations currently in progress.",
		}),
	}
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) finished(code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.checked.WithLabelValues(code).Inc()
	m.duration.WithLabelValues(code).Observe(elapsed.Seconds())
}
