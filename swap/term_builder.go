package swap

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/rate"
)

// LegTerms describes one leg of a TermBuilder swap: it runs for Term from the start
// date and pays every Frequency.
type LegTerms struct {
	Frequency calendar.Tenor
	Term      calendar.Tenor
}

// TermBuilder assembles a swap from a trade date and per leg tenors.
//
// The start date is the trade date moved StartShift business days forward. Each leg
// ends at start+Term rolled by Rule and is laid out backwards from there in steps of
// its Frequency, so an irregular period can only appear at the front; Stub decides
// whether it stands alone. Every period settles PaymentShift business days after its
// end.
type TermBuilder struct {
	terms        contractTerms
	tradeDate    calendar.Date
	startShift   int
	paymentShift int
	fixed        *LegTerms
	float        *LegTerms
	stub         Stub
	rule         calendar.RollingRule
	coupon       *rate.Percent
	notional     *decimal.Decimal
	payFixed     *bool
}

func NewTermBuilder() *TermBuilder {
	return &TermBuilder{
		terms: contractTerms{dayCount: curve.DefaultDayCount},
		rule:  calendar.Following,
		stub:  StubShort,
	}
}

func (b *TermBuilder) TradeDate(d calendar.Date) *TermBuilder { b.tradeDate = d; return b }
func (b *TermBuilder) StartShift(n int) *TermBuilder          { b.startShift = n; return b }
func (b *TermBuilder) PaymentShift(n int) *TermBuilder        { b.paymentShift = n; return b }

func (b *TermBuilder) FixedLeg(freq, term calendar.Tenor) *TermBuilder {
	b.fixed = &LegTerms{Frequency: freq, Term: term}
	return b
}

func (b *TermBuilder) FloatLeg(freq, term calendar.Tenor) *TermBuilder {
	b.float = &LegTerms{Frequency: freq, Term: term}
	return b
}

func (b *TermBuilder) Stub(s Stub) *TermBuilder                   { b.stub = s; return b }
func (b *TermBuilder) Rule(r calendar.RollingRule) *TermBuilder   { b.rule = r; return b }
func (b *TermBuilder) Coupon(r rate.Percent) *TermBuilder         { b.coupon = &r; return b }
func (b *TermBuilder) Spread(r rate.Percent) *TermBuilder         { b.terms.spread = r; return b }
func (b *TermBuilder) Notional(n decimal.Decimal) *TermBuilder    { b.notional = &n; return b }
func (b *TermBuilder) PayFixed(v bool) *TermBuilder               { b.payFixed = &v; return b }
func (b *TermBuilder) DayCount(dc calendar.DayCount) *TermBuilder { b.terms.dayCount = dc; return b }
func (b *TermBuilder) ID(id uuid.UUID) *TermBuilder               { b.terms.id = id; return b }
func (b *TermBuilder) Interpolation(s curve.Interpolation) *TermBuilder {
	b.terms.interpolation = s
	return b
}

func (b *TermBuilder) validate() error {
	var missing []string
	if b.tradeDate.IsZero() {
		missing = append(missing, "TradeDate")
	}
	if b.fixed == nil {
		missing = append(missing, "FixedLeg")
	}
	if b.float == nil {
		missing = append(missing, "FloatLeg")
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
	if !b.tradeDate.Valid() {
		errs = append(errs, fmt.Errorf("%w: trade date %s", calendar.ErrInvalidDate, b.tradeDate))
	}
	for _, leg := range []*LegTerms{b.fixed, b.float} {
		if !leg.Frequency.IsPositive() {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidFrequency, leg.Frequency))
		}
		if !leg.Term.IsPositive() {
			errs = append(errs, fmt.Errorf("%w: term %s must be positive", ErrInvalidSchedule, leg.Term))
		}
	}
	if b.startShift < 0 || b.paymentShift < 0 {
		errs = append(errs, fmt.Errorf("%w: negative business day shift", ErrInvalidSchedule))
	}
	return errors.Join(errs...)
}

// Build lays out both legs on the business days of jur.
func (b *TermBuilder) Build(cal *calendar.Calendar, jur calendar.Jurisdiction) (*Contract, error) {
	if jur == "" {
		return nil, fmt.Errorf("Build: %w", calendar.ErrEmptyJurisdiction)
	}
	if cal == nil {
		return nil, fmt.Errorf("Build: %w: Calendar", ErrMissingField)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	start, err := b.startDate(cal, jur)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	fixed, err := b.leg(cal, jur, start, *b.fixed)
	if err != nil {
		return nil, fmt.Errorf("Build: fixed leg: %w", err)
	}
	float, err := b.leg(cal, jur, start, *b.float)
	if err != nil {
		return nil, fmt.Errorf("Build: float leg: %w", err)
	}

	terms := b.terms
	terms.coupon, terms.notional, terms.payFixed, terms.jurisdiction = *b.coupon, *b.notional, *b.payFixed, jur

	c := newContract(terms, fixed, float)
	for i := range c.FixedLeg() {
		p := &c.periods[i]
		p.Payment = decimal.NewNullDecimal(c.accrue(c.coupon, p.Bounds))
	}
	return c, nil
}

func (b *TermBuilder) startDate(cal *calendar.Calendar, jur calendar.Jurisdiction) (calendar.Date, error) {
	if b.startShift == 0 {
		return cal.AdjustWorkDay(jur, b.tradeDate, b.rule)
	}
	return cal.AdvanceDateByBusinessDays(jur, b.tradeDate, b.startShift)
}

// leg steps back one frequency at a time from the unadjusted end date, each step
// taken from the previous boundary, then rolls every boundary by the builder rule.
func (b *TermBuilder) leg(cal *calendar.Calendar, jur calendar.Jurisdiction, start calendar.Date, lt LegTerms) ([]PaymentPeriod, error) {
	back := lt.Frequency.Negate()

	var bounds []calendar.Date
	cur := calendar.AdvanceDateByTenor(start, lt.Term)
	for cur.After(start) {
		bounds = append(bounds, cur)
		cur = calendar.AdvanceDateByTenor(cur, back)
	}
	onGrid := cur == start
	slices.Reverse(bounds)

	if !onGrid && b.stub == StubShort && len(bounds) > 1 {
		bounds = bounds[1:]
	}

	periods := make([]PaymentPeriod, 0, len(bounds))
	since := start
	for _, d := range bounds {
		until, err := cal.AdjustWorkDay(jur, d, b.rule)
		if err != nil {
			return nil, err
		}
		if !since.Before(until) {
			continue
		}
		settlement, err := cal.AdvanceDateByBusinessDays(jur, until, b.paymentShift)
		if err != nil {
			return nil, err
		}
		periods = append(periods, newPeriod(since, until, settlement))
		since = until
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no period after %s", ErrInvalidSchedule, start)
	}
	return periods, nil
}
