package curve_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/rate"
)

func samplePillars() curve.Pillars {
	return curve.Pillars{
		{Date: date("2025-03-03"), Rate: rate.FromPercentage(2)},
		{Date: date("2025-03-13"), Rate: rate.FromPercentage(3)},
		{Date: date("2025-06-02"), Rate: rate.FromPercentage(5)},
	}
}

func TestPillarsSearch(t *testing.T) {
	t.Parallel()

	ps := samplePillars()
	i, ok := ps.Search(date("2025-03-13"))
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = ps.Search(date("2025-04-01"))
	assert.False(t, ok)
	assert.Equal(t, 2, i)

	lo, hi, ok := ps.Bracket(date("2025-03-10"))
	require.True(t, ok)
	assert.Equal(t, date("2025-03-03"), lo.Date)
	assert.Equal(t, date("2025-03-13"), hi.Date)

	_, _, ok = ps.Bracket(date("2025-03-13"))
	assert.False(t, ok)
	_, _, ok = ps.Bracket(date("2025-01-01"))
	assert.False(t, ok)
	_, _, ok = ps.Bracket(date("2026-01-01"))
	assert.False(t, ok)

	_, ok = ps.Lookup(date("2025-03-04"))
	assert.False(t, ok)
}

func TestLinearInterpolation(t *testing.T) {
	t.Parallel()

	ps := samplePillars()
	ctx := curve.Context{}
	lin := curve.Linear{}

	cases := []struct {
		date string
		want float64
	}{
		{"2025-01-01", 0.02},
		{"2025-03-03", 0.02},
		{"2025-03-08", 0.025},
		{"2025-03-13", 0.03},
		{"2025-06-02", 0.05},
		{"2030-01-01", 0.05},
	}
	for _, tc := range cases {
		got, err := lin.Interpolate(ps, date(tc.date), ctx)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got.Fraction(), 1e-15, tc.date)
	}

	got, err := lin.Interpolate(nil, date("2025-03-08"), ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestLinearRollsWeekendsBack(t *testing.T) {
	t.Parallel()

	ps := samplePillars()
	cal := newCalendar(t, "USD", "2025-03-07")
	ctx := curve.Context{Calendar: cal, Jurisdiction: "USD"}

	// Saturday the 8th falls back past the Friday holiday to Thursday the 6th.
	got, err := curve.Linear{}.Interpolate(ps, date("2025-03-08"), ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.02+0.01*3/10, got.Fraction(), 1e-15)

	_, err = curve.Linear{}.Interpolate(ps, date("2025-03-08"), curve.Context{Calendar: cal, Jurisdiction: "EUR"})
	assert.ErrorIs(t, err, calendar.ErrUnknownJurisdiction)
}

func TestLinearProperties(t *testing.T) {
	ps := samplePillars()
	first, last := ps[0], ps[len(ps)-1]
	lin := curve.Linear{}

	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("pillar dates interpolate to their own rate", prop.ForAll(
		func(i int) bool {
			got, err := lin.Interpolate(ps, ps[i].Date, curve.Context{})
			return err == nil && got == ps[i].Rate
		},
		gen.IntRange(0, len(ps)-1),
	))

	properties.Property("flat before the first and after the last pillar", prop.ForAll(
		func(n int) bool {
			before, err1 := lin.Interpolate(ps, first.Date.AddDays(-n), curve.Context{})
			after, err2 := lin.Interpolate(ps, last.Date.AddDays(n), curve.Context{})
			return err1 == nil && err2 == nil && before == first.Rate && after == last.Rate
		},
		gen.IntRange(0, 20000),
	))

	properties.Property("interior rates stay between the bracketing pillars", prop.ForAll(
		func(n int) bool {
			d := first.Date.AddDays(n)
			lo, hi, ok := ps.Bracket(d)
			if !ok {
				return true
			}
			got, err := lin.Interpolate(ps, d, curve.Context{})
			return err == nil && got.Compare(lo.Rate) >= 0 && got.Compare(hi.Rate) <= 0
		},
		gen.IntRange(0, last.Date.Sub(first.Date)),
	))

	properties.TestingRun(t)
}

func TestLogLinearInterpolation(t *testing.T) {
	t.Parallel()

	today := date("2025-03-03")
	ps := curve.Pillars{
		{Date: date("2026-03-03"), Rate: rate.FromPercentage(4)},
		{Date: date("2027-03-03"), Rate: rate.FromPercentage(5)},
	}
	ctx := curve.Context{Today: today}
	ll := curve.NewLogLinear(calendar.Act365)
	assert.Equal(t, calendar.Act365, ll.DayCount())

	got, err := ll.Interpolate(ps, ps[0].Date, ctx)
	require.NoError(t, err)
	assert.Equal(t, ps[0].Rate, got)

	mid := date("2026-09-01")
	got, err = ll.Interpolate(ps, mid, ctx)
	require.NoError(t, err)

	p1 := calendar.NewPeriod(today, ps[0].Date)
	p2 := calendar.NewPeriod(today, ps[1].Date)
	pm := calendar.NewPeriod(today, mid)
	df1 := curve.ZeroRatesToDiscountWith(p1, ps[0].Rate, calendar.Act365)
	df2 := curve.ZeroRatesToDiscountWith(p2, ps[1].Rate, calendar.Act365)
	w := (pm.Act365() - p1.Act365()) / (p2.Act365() - p1.Act365())
	df := math.Exp(math.Log(df1) + (math.Log(df2)-math.Log(df1))*w)
	want := (1/df - 1) / pm.Act365()

	assert.InDelta(t, want, got.Fraction(), 1e-12)
	assert.Greater(t, got.Fraction(), 0.04)
	assert.Less(t, got.Fraction(), 0.05)
	assert.Equal(t, 2, ll.Cached())

	_, err = ll.Interpolate(ps, date("2026-10-01"), ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ll.Cached())

	ll.Reset()
	assert.Zero(t, ll.Cached())

	got, err = ll.Interpolate(ps, date("2030-01-01"), ctx)
	require.NoError(t, err)
	assert.Equal(t, ps[1].Rate, got)

	_, err = ll.Interpolate(ps, mid, curve.Context{})
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestCurveDispatchesToStatefulStrategy(t *testing.T) {
	t.Parallel()

	cal := newCalendar(t, "USD")
	c := curve.New()
	require.NoError(t, c.StaticInit().
		SetJurisdiction("USD").
		SetCalendar(cal).
		SetToday(date("2025-03-03")).
		Pillar(date("2026-03-03"), rate.FromPercentage(4)).
		Pillar(date("2027-03-03"), rate.FromPercentage(5)).
		Err())

	var ll curve.LogLinear
	got, err := c.Interpolated(date("2026-09-01"), &ll)
	require.NoError(t, err)
	assert.InDelta(t, 0.045, got.Fraction(), 0.005)
	assert.Equal(t, 2, ll.Cached())

	lin, err := c.InterpolatedWith(date("2026-09-01"), curve.Linear{}, curve.Context{})
	require.NoError(t, err)
	assert.NotEqual(t, lin, got)
}
