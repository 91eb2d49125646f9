package curve

import (
	"fmt"
	"math"
	"sync"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/rate"
)

const maxCachedDiscounts = 4096

type discountKey struct {
	today, date calendar.Date
	rate        float64
}

// LogLinear interpolates log discount factors linearly in year fraction from Today,
// then converts the result back to a simple zero rate. Outside the pillar range the
// nearest pillar rate is used. Pillar discount factors are memoised, so a LogLinear
// value must be used through a pointer.
type LogLinear struct {
	dayCount calendar.DayCount

	mu    sync.Mutex
	cache map[discountKey]float64
}

// NewLogLinear returns a log-linear strategy measuring time with dc.
func NewLogLinear(dc calendar.DayCount) *LogLinear {
	return &LogLinear{dayCount: dc, cache: make(map[discountKey]float64)}
}

func (l *LogLinear) DayCount() calendar.DayCount { return l.dayCount }

// Cached reports the number of memoised pillar discount factors.
func (l *LogLinear) Cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

func (l *LogLinear) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

func (l *LogLinear) Interpolate(pillars Pillars, date calendar.Date, ctx Context) (rate.Percent, error) {
	if !ctx.Today.Valid() {
		return rate.Zero, fmt.Errorf("LogLinear: %w: today %s", calendar.ErrInvalidDate, ctx.Today)
	}
	lo, hi, ok := pillars.Bracket(date)
	if !ok || !lo.Date.After(ctx.Today) {
		return linear(pillars, date), nil
	}

	t1 := calendar.NewPeriod(ctx.Today, lo.Date).DayCountFraction(l.dayCount)
	t2 := calendar.NewPeriod(ctx.Today, hi.Date).DayCountFraction(l.dayCount)
	t := calendar.NewPeriod(ctx.Today, date).DayCountFraction(l.dayCount)

	ln1 := math.Log(l.discount(ctx.Today, lo))
	ln2 := math.Log(l.discount(ctx.Today, hi))
	df := math.Exp(ln1 + (ln2-ln1)*(t-t1)/(t2-t1))

	r, err := DiscountToZeroRatesWith(calendar.NewPeriod(ctx.Today, date), df, l.dayCount)
	if err != nil {
		return rate.Zero, fmt.Errorf("LogLinear: %w", err)
	}
	return r, nil
}

func (l *LogLinear) discount(today calendar.Date, p Pillar) float64 {
	key := discountKey{today: today, date: p.Date, rate: p.Rate.Fraction()}

	l.mu.Lock()
	defer l.mu.Unlock()
	if df, ok := l.cache[key]; ok {
		return df
	}
	if l.cache == nil || len(l.cache) >= maxCachedDiscounts {
		l.cache = make(map[discountKey]float64)
	}
	df := ZeroRatesToDiscountWith(calendar.NewPeriod(today, p.Date), p.Rate, l.dayCount)
	l.cache[key] = df
	return df
}
