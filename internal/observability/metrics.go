package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the calculators.
type Metrics struct {
	Calculations      *prometheus.CounterVec // labels: calculator
	CalculationErrors *prometheus.CounterVec // labels: calculator
	NonFiniteResults  *prometheus.CounterVec // labels: calculator
}

func newMetrics() *Metrics {
	return &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floe",
			Name:      "calculations_total",
			Help:      "Completed calculations by calculator.",
		}, []string{"calculator"}),
		CalculationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floe",
			Name:      "calculation_errors_total",
			Help:      "Rejected calculation requests by calculator.",
		}, []string{"calculator"}),
		NonFiniteResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floe",
			Name:      "non_finite_results_total",
			Help:      "Calculations that produced NaN or Inf from degenerate geometry.",
		}, []string{"calculator"}),
	}
}

// NewMetrics creates and registers the metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.Calculations, m.CalculationErrors, m.NonFiniteResults)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build many.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveCalculation records one completed calculation. Safe on a nil receiver.
func (m *Metrics) ObserveCalculation(calculator string, finite bool) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(calculator).Inc()
	if !finite {
		m.NonFiniteResults.WithLabelValues(calculator).Inc()
	}
}

// ObserveError records one rejected request. Safe on a nil receiver.
func (m *Metrics) ObserveError(calculator string) {
	if m == nil {
		return
	}
	m.CalculationErrors.WithLabelValues(calculator).Inc()
}
