package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/config"
	"github.com/meenmo/ratekit/metrics"
	"github.com/meenmo/ratekit/rate"
	"github.com/meenmo/ratekit/solver"
)

// Calibration reports the outcome of AdaptToContract.
type Calibration struct {
	Pillar         calendar.Date
	Rate           rate.Percent
	DiscountFactor float64
	NPV            decimal.Decimal
	Iterations     int  // bisection steps
	Refined        bool // whether Newton-Raphson polished the bisection result
}

type calibrateOptions struct {
	settings config.Calibration
	metrics  *metrics.Metrics
}

// CalibrateOption customises AdaptToContract.
type CalibrateOption func(*calibrateOptions)

// WithSettings overrides config.GetConfig().Calibration.
func WithSettings(s config.Calibration) CalibrateOption {
	return func(o *calibrateOptions) { o.settings = s }
}

func WithMetrics(m *metrics.Metrics) CalibrateOption {
	return func(o *calibrateOptions) { o.metrics = m }
}

// AdaptToContract solves for the rate of a single pillar so that contract reprices
// to zero NPV.
//
// The pillar sits at the contract settlement date rolled Following, and is added with
// a zero rate if missing. The search bisects the pillar discount factor over
// [MinDiscountFactor, 1], asking the contract to re-apply the curve at every trial,
// until the bracket or |NPV| is within tolerance, and then optionally refines with
// Newton-Raphson inside the final bracket. On failure the pillar is restored.
func (c *Curve) AdaptToContract(contract Contract, opts ...CalibrateOption) (Calibration, error) {
	o := calibrateOptions{
		settings: config.GetConfig().Calibration,
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	started := time.Now()
	res, err := c.adapt(contract, o)
	switch {
	case err == nil:
		o.metrics.ObserveCalibration(metrics.OutcomeConverged, res.Iterations, time.Since(started))
		c.logger().Info("pillar calibrated",
			"pillar", res.Pillar, "rate", res.Rate, "df", res.DiscountFactor,
			"npv", res.NPV, "iterations", res.Iterations, "refined", res.Refined)
	case errors.Is(err, ErrIncompleteContract):
		o.metrics.ObserveCalibration(metrics.OutcomeIncomplete, res.Iterations, time.Since(started))
		c.logger().Warn("calibration aborted", "error", err)
	default:
		o.metrics.ObserveCalibration(metrics.OutcomeFailed, res.Iterations, time.Since(started))
		c.logger().Warn("calibration failed", "error", err)
	}
	return res, err
}

func (c *Curve) adapt(contract Contract, o calibrateOptions) (Calibration, error) {
	s := o.settings
	if c.cal == nil {
		return Calibration{}, fmt.Errorf("AdaptToContract: %w", ErrNoCalendar)
	}
	pillar, err := c.cal.AdjustWorkDay(c.jurisdiction, contract.SettlementDate(), calendar.Following)
	if err != nil {
		return Calibration{}, fmt.Errorf("AdaptToContract: %w", err)
	}
	period := calendar.NewPeriod(c.today, pillar)
	if !period.Valid() || period.Empty() {
		return Calibration{}, fmt.Errorf("AdaptToContract: %w: pillar %s is not after today %s", ErrEmptyPeriod, pillar, c.today)
	}

	prev, existed := c.pillars.Lookup(pillar)
	if !existed {
		if err := c.Insert(pillar, rate.Zero); err != nil {
			return Calibration{}, fmt.Errorf("AdaptToContract: %w", err)
		}
	}
	res := Calibration{Pillar: pillar}

	restore := func() {
		if existed {
			_ = c.SetRate(pillar, prev)
			return
		}
		if i, ok := c.pillars.Search(pillar); ok {
			c.pillars = append(c.pillars[:i], c.pillars[i+1:]...)
		}
	}

	npvAt := func(df float64) (float64, error) {
		r, err := DiscountToZeroRates(period, df)
		if err != nil {
			return 0, err
		}
		if err := c.SetRate(pillar, r); err != nil {
			return 0, err
		}
		if err := contract.ApplyCurve(c); err != nil {
			return 0, fmt.Errorf("apply curve: %w", err)
		}
		npv, err := contract.NPV(c)
		if err != nil {
			return 0, fmt.Errorf("npv: %w", err)
		}
		if !npv.Valid {
			return 0, ErrIncompleteContract
		}
		return npv.Decimal.InexactFloat64(), nil
	}

	lo, hi := s.MinDiscountFactor, 1.0
	flo, err := npvAt(lo)
	if err != nil {
		restore()
		return res, fmt.Errorf("AdaptToContract: %w", err)
	}
	fhi, err := npvAt(hi)
	if err != nil {
		restore()
		return res, fmt.Errorf("AdaptToContract: %w", err)
	}

	df, solved := 0.0, false
	switch {
	case math.Abs(fhi) <= s.NPVTolerance:
		df, solved = hi, true
	case math.Abs(flo) <= s.NPVTolerance:
		df, solved = lo, true
	case math.Signbit(flo) == math.Signbit(fhi):
		restore()
		return res, fmt.Errorf("AdaptToContract: %w: NPV has the same sign at discount factors %g (%g) and %g (%g)",
			ErrCalibrationFailed, lo, flo, hi, fhi)
	}

	for !solved && hi-lo > s.BisectionTolerance {
		if res.Iterations >= s.MaxBisectionIterations {
			restore()
			return res, fmt.Errorf("AdaptToContract: %w: bisection cap of %d reached", ErrCalibrationFailed, s.MaxBisectionIterations)
		}
		res.Iterations++

		mid := lo + (hi-lo)/2
		fm, err := npvAt(mid)
		if err != nil {
			restore()
			return res, fmt.Errorf("AdaptToContract: %w", err)
		}
		c.logger().Debug("bisection step", "iteration", res.Iterations, "lo", lo, "hi", hi, "df", mid, "npv", fm)

		if math.Abs(fm) <= s.NPVTolerance {
			df, solved = mid, true
			break
		}
		if math.Signbit(fm) == math.Signbit(fhi) {
			hi, fhi = mid, fm
		} else {
			lo = mid
		}
	}
	if !solved {
		df = lo + (hi-lo)/2
	}

	if s.Refine {
		var evalErr error
		f := func(x float64) float64 {
			v, err := npvAt(x)
			if err != nil {
				evalErr = errors.Join(evalErr, err)
				return math.NaN()
			}
			return v
		}
		root, err := solver.FindRoot(f, lo, hi, solver.WithStart(df), solver.WithLogger(c.logger()), solver.WithMetrics(o.metrics))
		if evalErr != nil {
			restore()
			return res, fmt.Errorf("AdaptToContract: %w", evalErr)
		}
		if err != nil {
			restore()
			return res, fmt.Errorf("AdaptToContract: %w: %w", ErrCalibrationFailed, err)
		}
		df, res.Refined = root.Root, true
	}

	npv, err := npvAt(df)
	if err != nil {
		restore()
		return res, fmt.Errorf("AdaptToContract: %w", err)
	}
	res.DiscountFactor = df
	res.Rate, _ = c.pillars.Lookup(pillar)
	res.NPV = decimal.NewFromFloat(npv)
	return res, nil
}
