package swap

import (
	"iter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/rate"
)

// Contract is a built interest rate swap.
//
// Both legs live in one arena: the fixed leg is periods[:floatStart] and the floating
// leg is periods[floatStart:]. A Contract is mutated by ApplyCurve and must not be
// shared between goroutines while that happens.
type Contract struct {
	id            uuid.UUID
	periods       []PaymentPeriod
	floatStart    int
	head, tail    int
	coupon        rate.Percent
	spread        rate.Percent
	notional      decimal.Decimal
	payFixed      bool
	jurisdiction  calendar.Jurisdiction
	dayCount      calendar.DayCount
	interpolation curve.Interpolation
}

var _ curve.Contract = (*Contract)(nil)

type contractTerms struct {
	id            uuid.UUID
	coupon        rate.Percent
	spread        rate.Percent
	notional      decimal.Decimal
	payFixed      bool
	jurisdiction  calendar.Jurisdiction
	dayCount      calendar.DayCount
	interpolation curve.Interpolation
}

func newContract(t contractTerms, fixed, float []PaymentPeriod) *Contract {
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	if t.interpolation == nil {
		t.interpolation = curve.Linear{}
	}
	periods := make([]PaymentPeriod, 0, len(fixed)+len(float))
	periods = append(periods, fixed...)
	periods = append(periods, float...)

	c := &Contract{
		id:            t.id,
		periods:       periods,
		floatStart:    len(fixed),
		coupon:        t.coupon,
		spread:        t.spread,
		notional:      t.notional,
		payFixed:      t.payFixed,
		jurisdiction:  t.jurisdiction,
		dayCount:      t.dayCount,
		interpolation: t.interpolation,
	}
	c.head, c.tail = linkChronologically(c.periods)
	return c
}

func (c *Contract) ID() uuid.UUID                       { return c.id }
func (c *Contract) Coupon() rate.Percent                { return c.coupon }
func (c *Contract) Spread() rate.Percent                { return c.spread }
func (c *Contract) Notional() decimal.Decimal           { return c.notional }
func (c *Contract) PayFixed() bool                      { return c.payFixed }
func (c *Contract) Jurisdiction() calendar.Jurisdiction { return c.jurisdiction }
func (c *Contract) DayCount() calendar.DayCount         { return c.dayCount }
func (c *Contract) Interpolation() curve.Interpolation  { return c.interpolation }
func (c *Contract) Len() int                            { return len(c.periods) }
func (c *Contract) Period(i int) PaymentPeriod          { return c.periods[i] }
func (c *Contract) IsFloating(i int) bool               { return i >= c.floatStart }
func (c *Contract) ChronoHead() int                     { return c.head }
func (c *Contract) ChronoTail() int                     { return c.tail }

// FixedLeg and FloatLeg are read-only views into the contract arena.
func (c *Contract) FixedLeg() []PaymentPeriod {
	return c.periods[:c.floatStart:c.floatStart]
}

func (c *Contract) FloatLeg() []PaymentPeriod {
	return c.periods[c.floatStart:len(c.periods):len(c.periods)]
}

// Chronological yields (arena index, period) pairs of both legs ordered by period start.
func (c *Contract) Chronological() iter.Seq2[int, PaymentPeriod] {
	return func(yield func(int, PaymentPeriod) bool) {
		if len(c.periods) == 0 {
			return
		}
		for i := c.head; i != NoLink; i = c.periods[i].Next {
			if !yield(i, c.periods[i]) {
				return
			}
		}
	}
}

// SettlementDate is the settlement date of the chronologically last period. A contract
// without periods, which the builders never return, reports the zero Date, and
// curve.AdaptToContract rejects it with calendar.ErrInvalidDate.
func (c *Contract) SettlementDate() calendar.Date {
	if len(c.periods) == 0 {
		return calendar.Date{}
	}
	return c.periods[c.tail].Settlement
}

func (c *Contract) accrue(r rate.Percent, p calendar.Period) decimal.Decimal {
	return r.Apply(c.notional).Mul(decimal.NewFromFloat(p.DayCountFraction(c.dayCount)))
}
