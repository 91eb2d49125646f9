package curve

import (
	"slices"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/rate"
)

// Pillar is a calibrated (date, rate) anchor of a curve.
type Pillar struct {
	Date calendar.Date
	Rate rate.Percent
}

// Pillars is kept sorted by date with no two pillars on the same date.
type Pillars []Pillar

func comparePillarDate(p Pillar, d calendar.Date) int { return p.Date.Compare(d) }

// Search returns the index of the first pillar dated on or after d, and whether it is
// dated exactly d.
func (ps Pillars) Search(d calendar.Date) (int, bool) {
	return slices.BinarySearchFunc(ps, d, comparePillarDate)
}

// Lookup returns the rate of the pillar dated exactly d.
func (ps Pillars) Lookup(d calendar.Date) (rate.Percent, bool) {
	i, ok := ps.Search(d)
	if !ok {
		return rate.Zero, false
	}
	return ps[i].Rate, true
}

func (ps Pillars) Dates() []calendar.Date {
	out := make([]calendar.Date, len(ps))
	for i, p := range ps {
		out[i] = p.Date
	}
	return out
}

// Bracket finds the adjacent pillars with lo.Date < d < hi.Date. It reports false
// when d is a pillar date or lies outside the pillar range.
func (ps Pillars) Bracket(d calendar.Date) (lo, hi Pillar, ok bool) {
	i, exact := ps.Search(d)
	if exact || i == 0 || i == len(ps) {
		return Pillar{}, Pillar{}, false
	}
	return ps[i-1], ps[i], true
}

// upsert inserts p or replaces the rate of the pillar on the same date.
func (ps *Pillars) upsert(p Pillar) {
	i, ok := ps.Search(p.Date)
	if ok {
		(*ps)[i].Rate = p.Rate
		return
	}
	*ps = slices.Insert(*ps, i, p)
}
