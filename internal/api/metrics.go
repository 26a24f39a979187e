package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

// CalculationsTotal counts act calculations by act and outcome.
var CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notarycalc",
	Subsystem: "acts",
	Name:      "calculations_total",
	Help:      "Total act calculations by act and outcome.",
}, []string{"act", "outcome"})

// CalculationDuration tracks how long act calculations take.
var CalculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "notarycalc",
	Subsystem: "acts",
	Name:      "calculation_duration_seconds",
	Help:      "Act calculation latency in seconds.",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
}, []string{"act"})

// SimulationsTotal counts template simulations by template and outcome.
var SimulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notarycalc",
	Subsystem: "templates",
	Name:      "simulations_total",
	Help:      "Total template simulations by template and outcome.",
}, []string{"template", "outcome"})

// outcome labels a result for the counters
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	ce, ok := domain.AsCalcError(err)
	if !ok {
		return "error"
	}
	return string(ce.Category()) + "_error"
}
