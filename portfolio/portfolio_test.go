package portfolio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/metrics"
	"github.com/meenmo/ratekit/portfolio"
	"github.com/meenmo/ratekit/rate"
	"github.com/meenmo/ratekit/swap"
)

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func setup(t *testing.T) (*calendar.Calendar, *curve.Curve) {
	t.Helper()
	cal := calendar.New()
	require.NoError(t, cal.Register("USD"))

	crv := curve.New()
	require.NoError(t, crv.StaticInit().
		SetJurisdiction("USD").
		SetCalendar(cal).
		SetToday(date("2025-01-15")).
		SetLogger(logger.Discard()).
		Pillar(date("2025-07-15"), rate.FromPercentage(3)).
		Pillar(date("2027-01-15"), rate.FromPercentage(4)).
		Err())
	return cal, crv
}

func book(t *testing.T, cal *calendar.Calendar, n int) []portfolio.Instrument {
	t.Helper()
	out := make([]portfolio.Instrument, 0, n)
	for i := range n {
		irs, err := swap.NewBuilder().
			Settlement(date("2025-01-15")).
			Maturity(date("2026-01-15").AddMonths(i)).
			FixedFrequency(calendar.Annual).
			FloatFrequency(calendar.Quarterly).
			Coupon(rate.FromPercentage(3.5)).
			Notional(decimal.NewFromInt(1_000_000)).
			PayFixed(i%2 == 0).
			Build(cal, "USD")
		require.NoError(t, err)
		out = append(out, irs)
	}
	return out
}

func TestValueMatchesSequentialPricing(t *testing.T) {
	t.Parallel()

	cal, crv := setup(t)
	instruments := book(t, cal, 12)
	m := metrics.New(prometheus.NewRegistry())

	vals, err := portfolio.Value(context.Background(), crv, instruments, portfolio.WithConcurrency(4), portfolio.WithMetrics(m))
	require.NoError(t, err)
	require.Len(t, vals, len(instruments))

	want := decimal.Zero
	for i, inst := range instruments {
		assert.Equal(t, inst.ID(), vals[i].ID)

		npv, err := inst.NPV(crv)
		require.NoError(t, err)
		require.True(t, npv.Valid)
		assert.True(t, npv.Decimal.Equal(vals[i].NPV.Decimal), "instrument %d", i)
		assert.True(t, vals[i].PVFloat.Decimal.Sub(vals[i].PVFixed.Decimal).Abs().Equal(npv.Decimal.Abs()))
		want = want.Add(npv.Decimal)
	}

	total, missing := portfolio.Total(vals)
	assert.Zero(t, missing)
	assert.True(t, want.Equal(total))
	assert.InDelta(t, 12, testutil.ToFloat64(m.ValuationsTotal.WithLabelValues(metrics.ValuationOK)), 0)
}

type brokenInstrument struct {
	portfolio.Instrument
	err error
}

func (b brokenInstrument) ApplyCurve(*curve.Curve) error { return b.err }

func TestValueStopsOnFirstError(t *testing.T) {
	t.Parallel()

	cal, crv := setup(t)
	instruments := book(t, cal, 3)
	boom := errors.New("boom")
	instruments[1] = brokenInstrument{Instrument: instruments[1], err: boom}
	m := metrics.New(prometheus.NewRegistry())

	_, err := portfolio.Value(context.Background(), crv, instruments, portfolio.WithConcurrency(1), portfolio.WithMetrics(m))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), instruments[1].ID().String())
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValuationsTotal.WithLabelValues(metrics.ValuationError)), 0)
}

func TestValueHonoursCancellation(t *testing.T) {
	t.Parallel()

	cal, crv := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := portfolio.Value(ctx, crv, book(t, cal, 2), portfolio.WithMetrics(metrics.New(prometheus.NewRegistry())))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTotalSkipsAbsentValues(t *testing.T) {
	t.Parallel()

	vals := []portfolio.Valuation{
		{ID: uuid.New(), NPV: decimal.NewNullDecimal(decimal.NewFromInt(5))},
		{ID: uuid.New()},
		{ID: uuid.New(), NPV: decimal.NewNullDecimal(decimal.NewFromInt(-2))},
	}
	sum, missing := portfolio.Total(vals)
	assert.True(t, decimal.NewFromInt(3).Equal(sum))
	assert.Equal(t, 1, missing)

	sum, missing = portfolio.Total(nil)
	assert.True(t, sum.IsZero())
	assert.Zero(t, missing)
}
