package curve_test

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/rate"
)

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func newCalendar(t *testing.T, jur calendar.Jurisdiction, holidays ...string) *calendar.Calendar {
	t.Helper()
	cal := calendar.New()
	b := cal.StaticInit().Jurisdiction(jur)
	for _, h := range holidays {
		b.Holiday(jur, date(h))
	}
	require.NoError(t, b.Err())
	return cal
}

func TestCurveStaticInit(t *testing.T) {
	t.Parallel()

	cal := newCalendar(t, "TEST", "2001-02-01")
	c := curve.New()
	err := c.StaticInit().
		SetJurisdiction("TEST").
		SetToday(date("2020-12-31")).
		SetCalendar(cal).
		SetLogger(logger.Discard()).
		Pillar(date("2021-01-01"), rate.FromFraction(21)).
		Err()
	require.NoError(t, err)

	assert.Equal(t, date("2020-12-31"), c.Today())
	assert.Equal(t, calendar.Jurisdiction("TEST"), c.Jurisdiction())
	assert.Same(t, cal, c.Calendar())
	assert.Equal(t, 1, c.Len())

	incremented := func(p rate.Percent) rate.Percent { return p.Add(rate.FromFraction(1)) }
	got, err := c.InterpolatedTransformed(date("2001-01-01"), curve.Linear{}, incremented)
	require.NoError(t, err)
	assert.Equal(t, rate.FromFraction(22), got)

	zero := curve.InterpolationFunc(func(curve.Pillars, calendar.Date, curve.Context) (rate.Percent, error) {
		return rate.Zero, nil
	})
	got, err = c.InterpolatedTransformed(date("2001-01-01"), zero, incremented)
	require.NoError(t, err)
	assert.Equal(t, rate.FromFraction(1), got)
}

func TestCurveInsertRejectsNonBusinessDays(t *testing.T) {
	t.Parallel()

	cal := newCalendar(t, "TEST", "2026-01-02")
	c := curve.New()

	err := c.StaticInit().
		SetJurisdiction("TEST").
		SetCalendar(cal).
		SetToday(date("2026-01-01")).
		Pillar(date("2026-01-05"), rate.FromPercentage(1)).
		Pillar(date("2026-01-02"), rate.FromPercentage(2)).
		Pillar(date("2026-01-06"), rate.FromPercentage(3)).
		Err()
	require.ErrorIs(t, err, curve.ErrNotBusinessDay)
	assert.Equal(t, []calendar.Date{date("2026-01-05")}, c.Pillars().Dates())

	assert.ErrorIs(t, c.Insert(date("2026-01-03"), rate.Zero), curve.ErrNotBusinessDay)
	assert.ErrorIs(t, c.Insert(calendar.NewDate(2026, 2, 30), rate.Zero), calendar.ErrInvalidDate)
	assert.ErrorIs(t, curve.New().Insert(date("2026-01-05"), rate.Zero), curve.ErrNoCalendar)

	other := curve.New()
	err = other.StaticInit().SetJurisdiction("NOPE").SetCalendar(cal).Pillar(date("2026-01-05"), rate.Zero).Err()
	assert.ErrorIs(t, err, calendar.ErrUnknownJurisdiction)

	assert.ErrorIs(t, curve.New().StaticInit().SetToday(calendar.Date{}).Err(), calendar.ErrInvalidDate)
	assert.ErrorIs(t, curve.New().StaticInit().SetJurisdiction("").Err(), calendar.ErrEmptyJurisdiction)
}

func TestCurveSetRateAndClear(t *testing.T) {
	t.Parallel()

	cal := newCalendar(t, "USD")
	c := curve.New()
	require.NoError(t, c.StaticInit().
		SetJurisdiction("USD").
		SetCalendar(cal).
		SetToday(date("2025-03-03")).
		Pillar(date("2025-06-03"), rate.FromPercentage(4)).
		Pillar(date("2025-03-04"), rate.FromPercentage(3)).
		Err())

	assert.Equal(t, []calendar.Date{date("2025-03-04"), date("2025-06-03")}, c.Pillars().Dates())

	require.NoError(t, c.SetRate(date("2025-06-03"), rate.FromPercentage(5)))
	got, ok := c.Pillars().Lookup(date("2025-06-03"))
	require.True(t, ok)
	assert.Equal(t, rate.FromPercentage(5), got)
	assert.ErrorIs(t, c.SetRate(date("2025-06-04"), rate.Zero), curve.ErrNoPillar)

	require.NoError(t, c.Insert(date("2025-03-04"), rate.FromPercentage(3.5)))
	assert.Equal(t, 2, c.Len())

	all := maps.Collect(c.All())
	assert.Len(t, all, 2)
	assert.Equal(t, rate.FromPercentage(3.5), all[date("2025-03-04")])

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Equal(t, date("2025-03-03"), c.Today())
}

func TestFromPillars(t *testing.T) {
	t.Parallel()

	points := map[calendar.Date]rate.Percent{
		date("2025-09-01"): rate.FromPercentage(3),
		date("2025-03-01"): rate.FromPercentage(2),
		date("2026-03-01"): rate.FromPercentage(4),
	}
	c, err := curve.FromPillars(maps.All(points))
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{date("2025-03-01"), date("2025-09-01"), date("2026-03-01")}, c.Pillars().Dates())

	_, err = curve.FromPillars(maps.All(map[calendar.Date]rate.Percent{calendar.NewDate(2025, 2, 29): rate.Zero}))
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestRollForward(t *testing.T) {
	t.Parallel()

	cal := calendar.New()
	require.NoError(t, cal.StaticInit().
		Holiday("USD", date("2027-06-03")).
		Holiday("USD", date("2027-06-05")).
		Holiday("USD", date("2027-06-07")).
		Holiday("USD", date("2027-06-09")).
		Holiday("USD", date("2027-06-11")).
		Holiday("WRONG", date("2027-06-12")).
		Holiday("WRONG", date("2027-06-13")).
		Holiday("WRONG", date("2027-06-14")).
		Err())

	c := curve.New()
	require.NoError(t, c.StaticInit().
		SetJurisdiction("USD").
		SetCalendar(cal).
		SetToday(date("2027-06-01")).
		SetLogger(logger.Discard()).
		Pillar(date("2027-06-02"), rate.FromPercentage(1)).
		Pillar(date("2027-06-04"), rate.FromPercentage(2)).
		Pillar(date("2027-06-08"), rate.FromPercentage(3)).
		Pillar(date("2027-06-10"), rate.FromPercentage(4)).
		Err())

	require.NoError(t, c.RollForward())
	assert.Equal(t, date("2027-06-02"), c.Today())

	want := curve.Pillars{
		{Date: date("2027-06-04"), Rate: rate.FromPercentage(1)},
		{Date: date("2027-06-08"), Rate: rate.FromPercentage(2)},
		{Date: date("2027-06-10"), Rate: rate.FromPercentage(3)},
		{Date: date("2027-06-14"), Rate: rate.FromPercentage(4)},
	}
	assert.Equal(t, want, c.Pillars())
}

func TestRollForwardMergesCollidingPillars(t *testing.T) {
	t.Parallel()

	c, err := curve.FromPillars(maps.All(map[calendar.Date]rate.Percent{
		date("2025-03-07"): rate.FromPercentage(1), // Friday
		date("2025-03-08"): rate.FromPercentage(2), // Saturday
	}))
	require.NoError(t, err)
	require.NoError(t, c.StaticInit().
		SetJurisdiction("USD").
		SetCalendar(newCalendar(t, "USD")).
		SetToday(date("2025-03-06")).
		SetLogger(logger.Discard()).
		Err())

	require.NoError(t, c.RollForward())
	assert.Equal(t, date("2025-03-07"), c.Today())
	assert.Equal(t, curve.Pillars{{Date: date("2025-03-10"), Rate: rate.FromPercentage(2)}}, c.Pillars())

	assert.ErrorIs(t, curve.New().RollForward(), curve.ErrNoCalendar)
}
