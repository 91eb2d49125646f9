package swap

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
)

// ApplyCurve resolves every floating payment as (curve rate at period end + spread)
// accrued on the notional over the period.
func (c *Contract) ApplyCurve(crv *curve.Curve) error {
	for i := c.floatStart; i < len(c.periods); i++ {
		p := &c.periods[i]
		r, err := crv.Interpolated(p.Until(), c.interpolation)
		if err != nil {
			return fmt.Errorf("ApplyCurve: period %s: %w", p.Bounds, err)
		}
		p.Payment = decimal.NewNullDecimal(c.accrue(r.Add(c.spread), p.Bounds))
	}
	return nil
}

// PVFixed is the present value of the fixed leg on the curve valuation date.
func (c *Contract) PVFixed(crv *curve.Curve) (decimal.NullDecimal, error) {
	pv, err := c.legPV(crv, c.FixedLeg())
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("PVFixed: %w", err)
	}
	return pv, nil
}

// PVFloat is the present value of the floating leg. It is absent while a period that
// has not ended before the valuation date still has no payment.
func (c *Contract) PVFloat(crv *curve.Curve) (decimal.NullDecimal, error) {
	pv, err := c.legPV(crv, c.FloatLeg())
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("PVFloat: %w", err)
	}
	return pv, nil
}

// NPV is PVFloat - PVFixed for the fixed payer and the opposite for the receiver.
func (c *Contract) NPV(crv *curve.Curve) (decimal.NullDecimal, error) {
	fixed, err := c.PVFixed(crv)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	float, err := c.PVFloat(crv)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if !fixed.Valid || !float.Valid {
		return decimal.NullDecimal{}, nil
	}

	npv := float.Decimal.Sub(fixed.Decimal)
	if !c.payFixed {
		npv = npv.Neg()
	}
	return decimal.NewNullDecimal(npv), nil
}

// legPV sums payment * dcf(today, settlement) * df(settlement) over the periods that
// have not ended before today.
func (c *Contract) legPV(crv *curve.Curve, leg []PaymentPeriod) (decimal.NullDecimal, error) {
	today := crv.Today()
	pv := decimal.Zero
	for _, p := range leg {
		if p.Until().Before(today) {
			continue
		}
		if !p.Payment.Valid {
			return decimal.NullDecimal{}, nil
		}
		w, err := c.weight(crv, p.Settlement)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		pv = pv.Add(p.Payment.Decimal.Mul(decimal.NewFromFloat(w)))
	}
	return decimal.NewNullDecimal(pv), nil
}

func (c *Contract) weight(crv *curve.Curve, settlement calendar.Date) (float64, error) {
	r, err := crv.Interpolated(settlement, c.interpolation)
	if err != nil {
		return 0, fmt.Errorf("rate at %s: %w", settlement, err)
	}
	span := calendar.NewPeriod(crv.Today(), settlement)
	return span.DayCountFraction(curve.DefaultDayCount) * curve.ZeroRatesToDiscount(span, r), nil
}
