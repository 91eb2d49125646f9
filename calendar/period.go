package calendar

import (
	"fmt"
	"iter"
	"strings"
)

// DayCount is a day count convention used to turn a Period into a year fraction.
type DayCount int

const (
	ActActISDA DayCount = iota
	Act360
	Act365
)

func (dc DayCount) String() string {
	switch dc {
	case Act360:
		return "ACT/360"
	case Act365:
		return "ACT/365"
	case ActActISDA:
		return "ACT/ACT ISDA"
	default:
		return "UNKNOWN"
	}
}

// ParseDayCount accepts ACT/360, ACT/365 (ACT/365F) and ACT/ACT (ACT/ACT ISDA).
func ParseDayCount(s string) (DayCount, error) {
	switch strings.Join(strings.Fields(strings.ToUpper(s)), " ") {
	case "ACT/360":
		return Act360, nil
	case "ACT/365", "ACT/365F":
		return Act365, nil
	case "ACT/ACT", "ACT/ACT ISDA", "ACTACTISDA":
		return ActActISDA, nil
	}
	return 0, fmt.Errorf("unknown day count %q", s)
}

// Period is the closed date interval [since, until].
type Period struct {
	since Date
	until Date
}

func NewPeriod(since, until Date) Period {
	return Period{since: since, until: until}
}

func (p Period) Since() Date { return p.since }
func (p Period) Until() Date { return p.until }

// Valid reports whether both bounds are valid dates and since <= until.
func (p Period) Valid() bool {
	return p.since.Valid() && p.until.Valid() && !p.since.After(p.until)
}

// Empty reports whether the period spans no days.
func (p Period) Empty() bool { return !p.since.Before(p.until) }

// Days returns the number of calendar days until - since.
func (p Period) Days() int { return p.until.Sub(p.since) }

func (p Period) Act360() float64 { return float64(p.Days()) / 360 }
func (p Period) Act365() float64 { return float64(p.Days()) / 365 }

// ActActISDA splits the period at year boundaries and weights the days spent in leap
// years by 1/366 and the rest by 1/365.
func (p Period) ActActISDA() float64 {
	if p.SameYear() {
		return float64(p.Days()) / float64(p.since.DaysInYear())
	}

	var leapDays, nonLeapDays int
	for cur := p.since; cur.Before(p.until); cur = cur.NextYearBeginning() {
		var n int
		if cur.Year() == p.until.Year() {
			n = p.until.Sub(cur)
		} else {
			n = cur.DaysTillEndOfYear()
		}
		if isLeap(cur.Year()) {
			leapDays += n
		} else {
			nonLeapDays += n
		}
	}
	return float64(leapDays)/366 + float64(nonLeapDays)/365
}

// DayCountFraction returns the year fraction of p under dc.
func (p Period) DayCountFraction(dc DayCount) float64 {
	switch dc {
	case Act360:
		return p.Act360()
	case Act365:
		return p.Act365()
	default:
		return p.ActActISDA()
	}
}

// Contains reports whether other lies entirely inside p.
func (p Period) Contains(other Period) bool {
	return !other.since.Before(p.since) && !other.until.After(p.until)
}

func (p Period) SameYear() bool { return p.since.Year() == p.until.Year() }

func (p Period) String() string {
	return "[" + p.since.String() + ", " + p.until.String() + "]"
}

// WithFrequency yields since, since+step, ... while the running date does not exceed until.
// Every month based step is taken from the previous date, so an end-of-month clamp
// carries into the following dates (Jan 31, Feb 28, Mar 28, ...).
func (p Period) WithFrequency(freq Frequency) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if freq == Daily {
			for cur := p.since; !cur.After(p.until); cur = cur.NextDay() {
				if !yield(cur) {
					return
				}
			}
			return
		}

		step := freq.Tenor().Count
		for cur := p.since; !cur.After(p.until); cur = cur.AddMonths(step) {
			if !yield(cur) {
				return
			}
		}
	}
}
