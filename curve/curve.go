// Package curve implements a dated zero rate curve with pluggable interpolation,
// roll-forward and single pillar bootstrap calibration.
package curve

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/rate"
)

var (
	ErrNotBusinessDay      = errors.New("pillar date is not a business day")
	ErrNonPositiveDiscount = errors.New("discount factor must be positive")
	ErrEmptyPeriod         = errors.New("period must be non-empty")
	ErrNoCalendar          = errors.New("curve has no calendar")
	ErrNoPillar            = errors.New("no pillar at date")
	ErrIncompleteContract  = errors.New("contract NPV is not available")
	ErrCalibrationFailed   = errors.New("calibration failed")
)

// Curve maps pillar dates to zero rates as seen from Today.
//
// The calendar is referenced, not owned. A Curve is not safe for concurrent use while
// it is being mutated (Insert, RollForward, AdaptToContract); concurrent reads are fine.
type Curve struct {
	pillars      Pillars
	today        calendar.Date
	jurisdiction calendar.Jurisdiction
	cal          *calendar.Calendar
	log          *slog.Logger
}

func New() *Curve {
	return &Curve{}
}

// FromPillars builds a curve without a calendar from (date, rate) pairs. Later pairs
// replace earlier ones on the same date. Dates are only checked for validity since
// there is no jurisdiction to check them against.
func FromPillars(points iter.Seq2[calendar.Date, rate.Percent]) (*Curve, error) {
	c := New()
	for d, r := range points {
		if !d.Valid() {
			return nil, fmt.Errorf("FromPillars: %w: %s", calendar.ErrInvalidDate, d)
		}
		c.pillars.upsert(Pillar{Date: d, Rate: r})
	}
	return c, nil
}

// Initializer populates a Curve fluently. The first failure is kept and every later
// call becomes a no-op.
type Initializer struct {
	parent *Curve
	err    error
}

// StaticInit starts a fluent initialisation of c:
//
//	err := c.StaticInit().
//		SetJurisdiction("USD").
//		SetCalendar(cal).
//		SetToday(today).
//		Pillar(d, rate.FromPercentage(4.1)).
//		Err()
//
// Pillars are inserted through Insert, so jurisdiction and calendar must be set first.
func (c *Curve) StaticInit() *Initializer {
	return &Initializer{parent: c}
}

func (i *Initializer) SetJurisdiction(jur calendar.Jurisdiction) *Initializer {
	if i.err == nil {
		if jur == "" {
			i.err = calendar.ErrEmptyJurisdiction
		} else {
			i.parent.jurisdiction = jur
		}
	}
	return i
}

func (i *Initializer) SetCalendar(cal *calendar.Calendar) *Initializer {
	if i.err == nil {
		i.parent.cal = cal
	}
	return i
}

func (i *Initializer) SetToday(today calendar.Date) *Initializer {
	if i.err == nil {
		if !today.Valid() {
			i.err = fmt.Errorf("SetToday: %w: %s", calendar.ErrInvalidDate, today)
		} else {
			i.parent.today = today
		}
	}
	return i
}

// SetLogger overrides logger.L for this curve.
func (i *Initializer) SetLogger(l *slog.Logger) *Initializer {
	if i.err == nil {
		i.parent.log = l
	}
	return i
}

func (i *Initializer) Pillar(d calendar.Date, r rate.Percent) *Initializer {
	if i.err == nil {
		i.err = i.parent.Insert(d, r)
	}
	return i
}

func (i *Initializer) Err() error { return i.err }

// Insert sets the rate of the pillar at d, adding the pillar if needed. d must be a
// business day in the curve's jurisdiction.
func (c *Curve) Insert(d calendar.Date, r rate.Percent) error {
	if !d.Valid() {
		return fmt.Errorf("Insert: %w: %s", calendar.ErrInvalidDate, d)
	}
	if c.cal == nil {
		return fmt.Errorf("Insert %s: %w", d, ErrNoCalendar)
	}
	business, err := c.cal.IsBusinessDay(c.jurisdiction, d)
	if err != nil {
		return fmt.Errorf("Insert %s: %w", d, err)
	}
	if !business {
		return fmt.Errorf("Insert: %w: %s in %s", ErrNotBusinessDay, d, c.jurisdiction)
	}
	c.pillars.upsert(Pillar{Date: d, Rate: r})
	return nil
}

// SetRate changes the rate of an existing pillar.
func (c *Curve) SetRate(d calendar.Date, r rate.Percent) error {
	i, ok := c.pillars.Search(d)
	if !ok {
		return fmt.Errorf("SetRate: %w %s", ErrNoPillar, d)
	}
	c.pillars[i].Rate = r
	return nil
}

func (c *Curve) Today() calendar.Date                { return c.today }
func (c *Curve) Jurisdiction() calendar.Jurisdiction { return c.jurisdiction }
func (c *Curve) Calendar() *calendar.Calendar        { return c.cal }
func (c *Curve) Len() int                            { return len(c.pillars) }

// Pillars returns a copy of the pillars in date order.
func (c *Curve) Pillars() Pillars { return slices.Clone(c.pillars) }

// All yields the pillars in date order.
func (c *Curve) All() iter.Seq2[calendar.Date, rate.Percent] {
	return func(yield func(calendar.Date, rate.Percent) bool) {
		for _, p := range c.pillars {
			if !yield(p.Date, p.Rate) {
				return
			}
		}
	}
}

// Clear drops every pillar; today, jurisdiction and calendar are kept.
func (c *Curve) Clear() { c.pillars = c.pillars[:0] }

// Context returns the interpolation context of c.
func (c *Curve) Context() Context {
	return Context{Calendar: c.cal, Jurisdiction: c.jurisdiction, Today: c.today}
}

// Interpolated returns the rate at d computed by strategy in the curve's own context.
func (c *Curve) Interpolated(d calendar.Date, strategy Interpolation) (rate.Percent, error) {
	return c.InterpolatedWith(d, strategy, c.Context())
}

// InterpolatedWith is Interpolated with an explicit context, e.g. to interpolate on
// another jurisdiction's business days.
func (c *Curve) InterpolatedWith(d calendar.Date, strategy Interpolation, ctx Context) (rate.Percent, error) {
	return strategy.Interpolate(c.pillars, d, ctx)
}

// InterpolatedTransformed applies fn to the interpolated rate.
func (c *Curve) InterpolatedTransformed(d calendar.Date, strategy Interpolation, fn func(rate.Percent) rate.Percent) (rate.Percent, error) {
	r, err := c.Interpolated(d, strategy)
	if err != nil {
		return rate.Zero, err
	}
	return fn(r), nil
}

// RollForward moves today and every pillar to its next business day.
//
// Pillars are re-keyed from the latest backwards. When an earlier pillar rolls onto
// the date already taken by a later one, the later pillar is kept.
func (c *Curve) RollForward() error {
	if c.cal == nil {
		return fmt.Errorf("RollForward: %w", ErrNoCalendar)
	}

	today, err := c.cal.FindNextWorkingDay(c.jurisdiction, c.today)
	if err != nil {
		return fmt.Errorf("RollForward: %w", err)
	}

	rolled := make(Pillars, 0, len(c.pillars))
	for i := len(c.pillars) - 1; i >= 0; i-- {
		p := c.pillars[i]
		next, err := c.cal.FindNextWorkingDay(c.jurisdiction, p.Date)
		if err != nil {
			return fmt.Errorf("RollForward: %w", err)
		}
		if n := len(rolled); n > 0 && rolled[n-1].Date == next {
			c.logger().Debug("pillar merged on roll", "from", p.Date, "into", next)
			continue
		}
		rolled = append(rolled, Pillar{Date: next, Rate: p.Rate})
	}
	slices.Reverse(rolled)

	c.pillars = rolled
	c.today = today
	c.logger().Debug("curve rolled forward", "today", today, "pillars", len(rolled))
	return nil
}

func (c *Curve) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.L()
}
