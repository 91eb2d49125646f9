// Package metrics exposes prometheus instrumentation for curve calibration and root finding.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calibration outcomes used as the "outcome" label.
const (
	OutcomeConverged  = "converged"
	OutcomeIncomplete = "incomplete"
	OutcomeFailed     = "failed"
)

// Valuation results used as the "result" label.
const (
	ValuationOK         = "ok"
	ValuationIncomplete = "incomplete"
	ValuationError      = "error"
)

// Metrics provides observability for the pricing engines.
type Metrics struct {
	// Calibration outcomes by status
	CalibrationsTotal *prometheus.CounterVec

	// Bisection steps spent per calibration
	CalibrationIterations prometheus.Histogram

	// Wall time of a full calibration
	CalibrationDuration prometheus.Histogram

	// Newton steps per root search, by whether it converged
	RootFinderIterations *prometheus.HistogramVec

	// Contracts valued by the portfolio runner, by result
	ValuationsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CalibrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ratekit_calibrations_total",
			Help: "Total single pillar calibrations by outcome",
		}, []string{"outcome"}),

		CalibrationIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ratekit_calibration_bisection_iterations",
			Help:    "Bisection iterations needed to bracket the pillar discount factor",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 50, 100, 200},
		}),

		CalibrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ratekit_calibration_duration_seconds",
			Help:    "Duration of a full calibration including refinement",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		RootFinderIterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratekit_root_finder_iterations",
			Help:    "Newton-Raphson iterations per root search",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		}, []string{"converged"}),

		ValuationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ratekit_valuations_total",
			Help: "Contracts valued by result",
		}, []string{"result"}),

		gatherer: reg,
	}
}

var (
	defaultOnce sync.Once
	defaultM    *Metrics
)

// Default returns the process wide Metrics backed by its own registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultM = New(prometheus.NewRegistry())
	})
	return defaultM
}

// ObserveCalibration records one calibration outcome.
func (m *Metrics) ObserveCalibration(outcome string, iterations int, d time.Duration) {
	if m == nil {
		return
	}
	m.CalibrationsTotal.WithLabelValues(outcome).Inc()
	m.CalibrationIterations.Observe(float64(iterations))
	m.CalibrationDuration.Observe(d.Seconds())
}

// ObserveRootFinder records the iteration count of one Newton-Raphson search.
func (m *Metrics) ObserveRootFinder(iterations int, converged bool) {
	if m == nil {
		return
	}
	label := "false"
	if converged {
		label = "true"
	}
	m.RootFinderIterations.WithLabelValues(label).Observe(float64(iterations))
}

// IncrementValuation records a valued contract under one of the Valuation* results.
func (m *Metrics) IncrementValuation(result string) {
	if m != nil {
		m.ValuationsTotal.WithLabelValues(result).Inc()
	}
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

// WriteTextfile dumps the current metric values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
