package swap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/rate"
)

// Builder assembles a swap whose legs follow a fixed frequency grid from the
// settlement date to the maturity date.
//
//	irs, err := swap.NewBuilder().
//		Settlement(settle).
//		Maturity(maturity).
//		FixedFrequency(calendar.Quarterly).
//		FloatFrequency(calendar.Annual).
//		Coupon(rate.FromPercentage(4)).
//		Notional(decimal.NewFromInt(1_000_000)).
//		PayFixed(true).
//		Build(cal, "USD")
type Builder struct {
	terms      contractTerms
	settlement calendar.Date
	maturity   calendar.Date
	fixedFreq  *calendar.Frequency
	floatFreq  *calendar.Frequency
	coupon     *rate.Percent
	notional   *decimal.Decimal
	payFixed   *bool
	rule       calendar.RollingRule
}

func NewBuilder() *Builder {
	return &Builder{
		terms: contractTerms{dayCount: curve.DefaultDayCount},
		rule:  calendar.Following,
	}
}

func (b *Builder) Settlement(d calendar.Date) *Builder { b.settlement = d; return b }
func (b *Builder) Maturity(d calendar.Date) *Builder   { b.maturity = d; return b }

func (b *Builder) FixedFrequency(f calendar.Frequency) *Builder { b.fixedFreq = &f; return b }
func (b *Builder) FloatFrequency(f calendar.Frequency) *Builder { b.floatFreq = &f; return b }

func (b *Builder) Coupon(r rate.Percent) *Builder         { b.coupon = &r; return b }
func (b *Builder) Notional(n decimal.Decimal) *Builder    { b.notional = &n; return b }
func (b *Builder) PayFixed(v bool) *Builder               { b.payFixed = &v; return b }
func (b *Builder) Spread(r rate.Percent) *Builder         { b.terms.spread = r; return b }
func (b *Builder) Rule(r calendar.RollingRule) *Builder   { b.rule = r; return b }
func (b *Builder) DayCount(dc calendar.DayCount) *Builder { b.terms.dayCount = dc; return b }
func (b *Builder) ID(id uuid.UUID) *Builder               { b.terms.id = id; return b }

// Interpolation sets the strategy used to read the curve when pricing. The default
// is curve.Linear.
func (b *Builder) Interpolation(s curve.Interpolation) *Builder {
	b.terms.interpolation = s
	return b
}

func (b *Builder) validate() error {
	var missing []string
	if b.settlement.IsZero() {
		missing = append(missing, "Settlement")
	}
	if b.maturity.IsZero() {
		missing = append(missing, "Maturity")
	}
	if b.fixedFreq == nil {
		missing = append(missing, "FixedFrequency")
	}
	if b.floatFreq == nil {
		missing = append(missing, "FloatFrequency")
	}
	if b.coupon == nil {
		missing = append(missing, "Coupon")
	}
	if b.notional == nil {
		missing = append(missing, "Notional")
	}
	if b.payFixed == nil {
		missing = append(missing, "PayFixed")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	var errs []error
	for _, f := range []calendar.Frequency{*b.fixedFreq, *b.floatFreq} {
		if f < calendar.Annual || f > calendar.Daily {
			errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidFrequency, int(f)))
		}
	}
	if !b.settlement.Valid() || !b.maturity.Valid() {
		errs = append(errs, fmt.Errorf("%w: settlement %s, maturity %s", calendar.ErrInvalidDate, b.settlement, b.maturity))
	} else if !b.settlement.Before(b.maturity) {
		errs = append(errs, fmt.Errorf("%w: maturity %s is not after settlement %s", ErrInvalidSchedule, b.maturity, b.settlement))
	}
	return errors.Join(errs...)
}

// Build generates both legs on the business days of jur. Fixed payments are known
// immediately; floating payments wait for ApplyCurve.
func (b *Builder) Build(cal *calendar.Calendar, jur calendar.Jurisdiction) (*Contract, error) {
	if jur == "" {
		return nil, fmt.Errorf("Build: %w", calendar.ErrEmptyJurisdiction)
	}
	if cal == nil {
		return nil, fmt.Errorf("Build: %w: Calendar", ErrMissingField)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	terms := b.terms
	terms.coupon, terms.notional, terms.payFixed, terms.jurisdiction = *b.coupon, *b.notional, *b.payFixed, jur

	fixed, err := b.leg(cal, jur, *b.fixedFreq)
	if err != nil {
		return nil, fmt.Errorf("Build: fixed leg: %w", err)
	}
	float, err := b.leg(cal, jur, *b.floatFreq)
	if err != nil {
		return nil, fmt.Errorf("Build: float leg: %w", err)
	}

	c := newContract(terms, fixed, float)
	for i := range c.FixedLeg() {
		p := &c.periods[i]
		p.Payment = decimal.NewNullDecimal(c.accrue(c.coupon, p.Bounds))
	}
	return c, nil
}

// leg walks the business-day grid of freq. Each consecutive pair of grid dates is a
// period capped at maturity, and a final period to maturity closes a grid that
// stops short of it.
func (b *Builder) leg(cal *calendar.Calendar, jur calendar.Jurisdiction, freq calendar.Frequency) ([]PaymentPeriod, error) {
	grid, err := cal.BusinessDays(calendar.NewPeriod(b.settlement, b.maturity).WithFrequency(freq), jur, b.rule)
	if err != nil {
		return nil, err
	}

	var (
		periods []PaymentPeriod
		start   calendar.Date
		started bool
	)
	for d := range grid {
		if !started {
			start, started = d, true
			continue
		}
		until := calendar.MinDate(d, b.maturity)
		if !start.Before(until) {
			break
		}
		periods = append(periods, newPeriod(start, until, until))
		start = until
		if !until.Before(b.maturity) {
			break
		}
	}
	if started && start.Before(b.maturity) {
		periods = append(periods, newPeriod(start, b.maturity, b.maturity))
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no period between %s and %s", ErrInvalidSchedule, b.settlement, b.maturity)
	}

	// A maturity on a holiday pays on the next business day under the builder rule.
	last := &periods[len(periods)-1]
	if last.Settlement, err = cal.AdjustWorkDay(jur, last.Settlement, b.rule); err != nil {
		return nil, err
	}
	return periods, nil
}
