// Package solver finds roots of scalar functions with Newton-Raphson.
package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/meenmo/ratekit/config"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/metrics"
)

var (
	// ErrNoConvergence is returned when the iteration cap is reached before |f(x)| <= tolerance.
	ErrNoConvergence = errors.New("root finder did not converge")
	// ErrZeroDerivative is returned when a Newton step would divide by a zero or non-finite slope.
	ErrZeroDerivative = errors.New("zero derivative")
	// ErrInvalidBounds is returned for left > right or non-finite bounds.
	ErrInvalidBounds = errors.New("invalid bounds")
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// Derivative approximates f'(x) with a central difference of half width
// config.Solver.DerivativeStep.
func Derivative(f Func, x float64) float64 {
	return derivative(f, x, config.GetConfig().Solver.DerivativeStep)
}

func derivative(f Func, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}

// Result describes the last iterate of FindRoot.
type Result struct {
	Root       float64
	Value      float64 // f(Root)
	Iterations int
}

type options struct {
	start     *float64
	tolerance float64
	step      float64
	maxIter   int
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option customises FindRoot.
type Option func(*options)

// WithStart sets the first iterate; the default is the midpoint of the bounds.
func WithStart(x float64) Option {
	return func(o *options) { o.start = &x }
}

func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// FindRoot runs Newton-Raphson on f inside [left, right].
//
// Every iterate is clamped into the bounds and the clamped value is the one evaluated
// next. The search stops when |f(x)| <= tolerance. If the iteration cap is reached
// first, the last iterate is returned together with ErrNoConvergence.
func FindRoot(f Func, left, right float64, opts ...Option) (Result, error) {
	cfg := config.GetConfig().Solver
	o := options{
		tolerance: cfg.Tolerance,
		step:      cfg.DerivativeStep,
		maxIter:   cfg.MaxIterations,
		log:       logger.L(),
		metrics:   metrics.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if math.IsNaN(left) || math.IsNaN(right) || math.IsInf(left, 0) || math.IsInf(right, 0) || left > right {
		return Result{}, fmt.Errorf("FindRoot: %w: [%g, %g]", ErrInvalidBounds, left, right)
	}

	x := left + (right-left)/2
	if o.start != nil {
		x = clamp(*o.start, left, right)
	}

	res := Result{Root: x}
	for res.Iterations = 0; res.Iterations < o.maxIter; res.Iterations++ {
		res.Value = f(x)
		if math.Abs(res.Value) <= o.tolerance {
			o.metrics.ObserveRootFinder(res.Iterations, true)
			return res, nil
		}

		slope := derivative(f, x, o.step)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			o.metrics.ObserveRootFinder(res.Iterations, false)
			return res, fmt.Errorf("FindRoot: %w at x=%g", ErrZeroDerivative, x)
		}

		x = clamp(x-res.Value/slope, left, right)
		res.Root = x
		o.log.Debug("newton step", "iteration", res.Iterations+1, "x", x, "f", res.Value, "slope", slope)
	}

	res.Value = f(x)
	if math.Abs(res.Value) <= o.tolerance {
		o.metrics.ObserveRootFinder(res.Iterations, true)
		return res, nil
	}
	o.metrics.ObserveRootFinder(res.Iterations, false)
	return res, fmt.Errorf("FindRoot: %w after %d iterations (x=%g, f=%g)", ErrNoConvergence, res.Iterations, x, res.Value)
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}
