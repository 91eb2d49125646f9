package curve

import (
	"fmt"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/rate"
)

// Context carries what a strategy may need besides the pillars.
type Context struct {
	Calendar     *calendar.Calendar
	Jurisdiction calendar.Jurisdiction
	Today        calendar.Date
}

// Interpolation computes a rate at an arbitrary date from sorted pillars.
//
// Stateless strategies are plain values; stateful ones keep their state behind a
// pointer receiver and must be safe for concurrent use if shared.
type Interpolation interface {
	Interpolate(pillars Pillars, date calendar.Date, ctx Context) (rate.Percent, error)
}

// InterpolationFunc adapts a function to Interpolation.
type InterpolationFunc func(pillars Pillars, date calendar.Date, ctx Context) (rate.Percent, error)

func (f InterpolationFunc) Interpolate(pillars Pillars, date calendar.Date, ctx Context) (rate.Percent, error) {
	return f(pillars, date, ctx)
}

// Linear interpolates rates linearly in calendar days between the bracketing pillars
// and extrapolates flat outside the pillar range. When the context has a calendar,
// non-business dates are first moved to the previous business day.
type Linear struct{}

func (Linear) Interpolate(pillars Pillars, date calendar.Date, ctx Context) (rate.Percent, error) {
	if ctx.Calendar != nil {
		weekend, err := ctx.Calendar.IsWeekend(ctx.Jurisdiction, date)
		if err != nil {
			return rate.Zero, fmt.Errorf("Linear: %w", err)
		}
		if weekend {
			if date, err = ctx.Calendar.FindPreviousWorkingDay(ctx.Jurisdiction, date); err != nil {
				return rate.Zero, fmt.Errorf("Linear: %w", err)
			}
		}
	}
	return linear(pillars, date), nil
}

func linear(pillars Pillars, date calendar.Date) rate.Percent {
	if len(pillars) == 0 {
		return rate.Zero
	}
	i, exact := pillars.Search(date)
	switch {
	case exact:
		return pillars[i].Rate
	case i == 0:
		return pillars[0].Rate
	case i == len(pillars):
		return pillars[len(pillars)-1].Rate
	}

	lo, hi := pillars[i-1], pillars[i]
	factor := float64(date.Sub(lo.Date)) / float64(hi.Date.Sub(lo.Date))
	return lo.Rate.Add(hi.Rate.Sub(lo.Rate).Mul(factor))
}
