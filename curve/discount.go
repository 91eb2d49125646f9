package curve

import (
	"fmt"
	"math"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/rate"
)

// DefaultDayCount is the convention used by ZeroRatesToDiscount and DiscountToZeroRates.
const DefaultDayCount = calendar.ActActISDA

// ZeroRatesToDiscount converts a simple zero rate over p to a discount factor,
// 1 / (1 + r * dcf(p)).
func ZeroRatesToDiscount(p calendar.Period, r rate.Percent) float64 {
	return ZeroRatesToDiscountWith(p, r, DefaultDayCount)
}

func ZeroRatesToDiscountWith(p calendar.Period, r rate.Percent, dc calendar.DayCount) float64 {
	return 1 / (1 + r.Fraction()*p.DayCountFraction(dc))
}

// DiscountToZeroRates inverts ZeroRatesToDiscount. The discount factor must be
// positive and p must span at least one day.
func DiscountToZeroRates(p calendar.Period, df float64) (rate.Percent, error) {
	return DiscountToZeroRatesWith(p, df, DefaultDayCount)
}

func DiscountToZeroRatesWith(p calendar.Period, df float64, dc calendar.DayCount) (rate.Percent, error) {
	if !(df > 0) || math.IsInf(df, 1) {
		return rate.Zero, fmt.Errorf("DiscountToZeroRates: %w: %g", ErrNonPositiveDiscount, df)
	}
	if !p.Valid() || p.Empty() {
		return rate.Zero, fmt.Errorf("DiscountToZeroRates: %w: %s", ErrEmptyPeriod, p)
	}
	return rate.FromFraction((1/df - 1) / p.DayCountFraction(dc)), nil
}
