// Package portfolio values many contracts against one curve concurrently.
package portfolio

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/metrics"
)

// Instrument is a contract that can report its legs separately.
type Instrument interface {
	curve.Contract
	ID() uuid.UUID
	PVFixed(*curve.Curve) (decimal.NullDecimal, error)
	PVFloat(*curve.Curve) (decimal.NullDecimal, error)
}

// Valuation holds the present values of one instrument. Values are absent when the
// instrument could not resolve every payment.
type Valuation struct {
	ID      uuid.UUID           `json:"id"`
	PVFixed decimal.NullDecimal `json:"pv_fixed"`
	PVFloat decimal.NullDecimal `json:"pv_float"`
	NPV     decimal.NullDecimal `json:"npv"`
}

type options struct {
	concurrency int
	metrics     *metrics.Metrics
}

type Option func(*options)

// WithConcurrency bounds the number of instruments valued at once. Values below one
// mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Value applies crv to every instrument and prices it. Results keep the order of
// instruments. The curve is only read, so it must not be mutated until Value returns;
// each instrument is touched by a single goroutine. The first failure cancels the
// remaining work.
func Value(ctx context.Context, crv *curve.Curve, instruments []Instrument, opts ...Option) ([]Valuation, error) {
	o := options{metrics: metrics.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}

	out := make([]Valuation, len(instruments))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, inst := range instruments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := value(crv, inst)
			if err != nil {
				o.metrics.IncrementValuation(metrics.ValuationError)
				return fmt.Errorf("Value %s: %w", inst.ID(), err)
			}
			if v.NPV.Valid {
				o.metrics.IncrementValuation(metrics.ValuationOK)
			} else {
				o.metrics.IncrementValuation(metrics.ValuationIncomplete)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.L().Debug("portfolio valued", "instruments", len(instruments), "today", crv.Today())
	return out, nil
}

func value(crv *curve.Curve, inst Instrument) (Valuation, error) {
	v := Valuation{ID: inst.ID()}
	if err := inst.ApplyCurve(crv); err != nil {
		return v, err
	}
	var err error
	if v.PVFixed, err = inst.PVFixed(crv); err != nil {
		return v, err
	}
	if v.PVFloat, err = inst.PVFloat(crv); err != nil {
		return v, err
	}
	if v.NPV, err = inst.NPV(crv); err != nil {
		return v, err
	}
	return v, nil
}

// Total sums the NPVs that are present and reports how many were absent.
func Total(vals []Valuation) (sum decimal.Decimal, missing int) {
	sum = decimal.Zero
	for _, v := range vals {
		if !v.NPV.Valid {
			missing++
			continue
		}
		sum = sum.Add(v.NPV.Decimal)
	}
	return sum, missing
}
