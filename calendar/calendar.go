package calendar

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

var (
	// ErrUnknownJurisdiction is returned when a query names a jurisdiction the calendar has never seen.
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")
	// ErrEmptyJurisdiction is returned when a jurisdiction identifier is the empty string.
	ErrEmptyJurisdiction = errors.New("empty jurisdiction")
)

// Jurisdiction identifies a holiday set, e.g. "USD", "TARGET" or "KRW".
type Jurisdiction string

type holidaySet map[Date]struct{}

// Calendar maps jurisdictions to their holiday sets.
//
// Queries never mutate the calendar, so a fully populated Calendar may be shared by
// concurrent readers. Insertions must not run concurrently with queries.
type Calendar struct {
	holidays map[Jurisdiction]holidaySet
}

func New() *Calendar {
	return &Calendar{holidays: make(map[Jurisdiction]holidaySet)}
}

// Register makes jur known to the calendar without adding holidays, so weekends are
// its only non-business days.
func (c *Calendar) Register(jur Jurisdiction) error {
	if jur == "" {
		return ErrEmptyJurisdiction
	}
	if c.holidays == nil {
		c.holidays = make(map[Jurisdiction]holidaySet)
	}
	if _, ok := c.holidays[jur]; !ok {
		c.holidays[jur] = make(holidaySet)
	}
	return nil
}

// Insert adds date to the holidays of jur, registering jur if needed.
func (c *Calendar) Insert(jur Jurisdiction, date Date) error {
	if !date.Valid() {
		return fmt.Errorf("Insert %s: %w: %s", jur, ErrInvalidDate, date)
	}
	if err := c.Register(jur); err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	c.holidays[jur][date] = struct{}{}
	return nil
}

// Initializer populates a Calendar fluently. The first failure is kept and every
// later call becomes a no-op.
type Initializer struct {
	parent *Calendar
	err    error
}

// StaticInit starts a fluent population of c:
//
//	err := cal.StaticInit().
//		Holiday("USD", calendar.MustParseDate("2025-07-04")).
//		HolidayRange("RUS", from, to).
//		Err()
func (c *Calendar) StaticInit() *Initializer {
	return &Initializer{parent: c}
}

func (i *Initializer) Jurisdiction(jur Jurisdiction) *Initializer {
	if i.err == nil {
		i.err = i.parent.Register(jur)
	}
	return i
}

func (i *Initializer) Holiday(jur Jurisdiction, date Date) *Initializer {
	if i.err == nil {
		i.err = i.parent.Insert(jur, date)
	}
	return i
}

// HolidayRange inserts every calendar day in [from, to].
func (i *Initializer) HolidayRange(jur Jurisdiction, from, to Date) *Initializer {
	if i.err != nil {
		return i
	}
	if !from.Valid() || !to.Valid() || from.After(to) {
		i.err = fmt.Errorf("HolidayRange %s: %w: %s..%s", jur, ErrInvalidDate, from, to)
		return i
	}
	for d := from; !d.After(to); d = d.NextDay() {
		if i.err = i.parent.Insert(jur, d); i.err != nil {
			return i
		}
	}
	return i
}

func (i *Initializer) Err() error { return i.err }

// Holidays returns the holidays of jur in ascending order.
func (c *Calendar) Holidays(jur Jurisdiction) ([]Date, error) {
	set, err := c.set(jur)
	if err != nil {
		return nil, err
	}
	return slices.SortedFunc(maps.Keys(set), Date.Compare), nil
}

// Jurisdictions returns the known jurisdictions sorted by name.
func (c *Calendar) Jurisdictions() []Jurisdiction {
	return slices.Sorted(maps.Keys(c.holidays))
}

func (c *Calendar) Empty() bool { return len(c.holidays) == 0 }

func (c *Calendar) Clear() { clear(c.holidays) }

func (c *Calendar) set(jur Jurisdiction) (holidaySet, error) {
	if jur == "" {
		return nil, ErrEmptyJurisdiction
	}
	set, ok := c.holidays[jur]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, jur)
	}
	return set, nil
}

func (s holidaySet) nonBusiness(d Date) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	_, ok := s[d]
	return ok
}

// IsWeekend reports whether date is a Saturday, a Sunday or a holiday of jur.
func (c *Calendar) IsWeekend(jur Jurisdiction, date Date) (bool, error) {
	if !date.Valid() {
		return false, fmt.Errorf("IsWeekend: %w: %s", ErrInvalidDate, date)
	}
	set, err := c.set(jur)
	if err != nil {
		return false, fmt.Errorf("IsWeekend: %w", err)
	}
	return set.nonBusiness(date), nil
}

// IsBusinessDay is the negation of IsWeekend.
func (c *Calendar) IsBusinessDay(jur Jurisdiction, date Date) (bool, error) {
	weekend, err := c.IsWeekend(jur, date)
	return !weekend && err == nil, err
}

// IsWeekendEachJur reports whether date is a non-business day in every one of jurs.
func (c *Calendar) IsWeekendEachJur(date Date, jurs ...Jurisdiction) (bool, error) {
	for _, jur := range jurs {
		weekend, err := c.IsWeekend(jur, date)
		if err != nil || !weekend {
			return false, err
		}
	}
	return true, nil
}

// IsWorkdayEachJur reports whether date is a business day in every one of jurs.
func (c *Calendar) IsWorkdayEachJur(date Date, jurs ...Jurisdiction) (bool, error) {
	for _, jur := range jurs {
		weekend, err := c.IsWeekend(jur, date)
		if err != nil || weekend {
			return false, err
		}
	}
	return true, nil
}

// AreWorkdays reports whether every date yielded by dates is a business day in jur.
func (c *Calendar) AreWorkdays(jur Jurisdiction, dates iter.Seq[Date]) (bool, error) {
	set, err := c.set(jur)
	if err != nil {
		return false, fmt.Errorf("AreWorkdays: %w", err)
	}
	for d := range dates {
		if !d.Valid() {
			return false, fmt.Errorf("AreWorkdays: %w: %s", ErrInvalidDate, d)
		}
		if set.nonBusiness(d) {
			return false, nil
		}
	}
	return true, nil
}

// FindNextWorkingDay returns the first business day strictly after date.
func (c *Calendar) FindNextWorkingDay(jur Jurisdiction, date Date) (Date, error) {
	if !date.Valid() {
		return Date{}, fmt.Errorf("FindNextWorkingDay: %w: %s", ErrInvalidDate, date)
	}
	set, err := c.set(jur)
	if err != nil {
		return Date{}, fmt.Errorf("FindNextWorkingDay: %w", err)
	}
	return set.step(date, 1), nil
}

// FindPreviousWorkingDay returns the last business day strictly before date.
func (c *Calendar) FindPreviousWorkingDay(jur Jurisdiction, date Date) (Date, error) {
	if !date.Valid() {
		return Date{}, fmt.Errorf("FindPreviousWorkingDay: %w: %s", ErrInvalidDate, date)
	}
	set, err := c.set(jur)
	if err != nil {
		return Date{}, fmt.Errorf("FindPreviousWorkingDay: %w", err)
	}
	return set.step(date, -1), nil
}

func (s holidaySet) step(d Date, dir int) Date {
	d = d.AddDays(dir)
	for s.nonBusiness(d) {
		d = d.AddDays(dir)
	}
	return d
}

func (s holidaySet) adjust(d Date, rule RollingRule) Date {
	if rule == Unadjusted || !s.nonBusiness(d) {
		return d
	}
	switch rule {
	case Preceding:
		return s.step(d, -1)
	case ModifiedFollowing:
		next := s.step(d, 1)
		if next.Month() != d.Month() {
			return s.step(d, -1)
		}
		return next
	default:
		return s.step(d, 1)
	}
}

// AdjustWorkDay rolls date onto a business day of jur according to rule.
// Business days are returned unchanged for every rule.
func (c *Calendar) AdjustWorkDay(jur Jurisdiction, date Date, rule RollingRule) (Date, error) {
	if !date.Valid() {
		return Date{}, fmt.Errorf("AdjustWorkDay: %w: %s", ErrInvalidDate, date)
	}
	set, err := c.set(jur)
	if err != nil {
		return Date{}, fmt.Errorf("AdjustWorkDay: %w", err)
	}
	return set.adjust(date, rule), nil
}

// AdvanceDateByBusinessDays moves date by n business days of jur (n can be negative).
func (c *Calendar) AdvanceDateByBusinessDays(jur Jurisdiction, date Date, n int) (Date, error) {
	if !date.Valid() {
		return Date{}, fmt.Errorf("AdvanceDateByBusinessDays: %w: %s", ErrInvalidDate, date)
	}
	set, err := c.set(jur)
	if err != nil {
		return Date{}, fmt.Errorf("AdvanceDateByBusinessDays: %w", err)
	}
	dir := 1
	if n < 0 {
		dir, n = -1, -n
	}
	for ; n > 0; n-- {
		date = set.step(date, dir)
	}
	return date, nil
}

// AdvanceDateByTenor applies tenor without regard to business days. Month and year
// tenors clamp to the end of the month.
func AdvanceDateByTenor(date Date, tenor Tenor) Date {
	switch tenor.Unit {
	case Day:
		return date.AddDays(tenor.Count)
	case Week:
		return date.AddDays(7 * tenor.Count)
	case Month:
		return date.AddMonths(tenor.Count)
	default:
		return date.AddYears(tenor.Count)
	}
}

// AdvanceDateByTenor is the package level AdvanceDateByTenor, kept on Calendar so
// callers holding a calendar need not import both forms.
func (c *Calendar) AdvanceDateByTenor(date Date, tenor Tenor) Date {
	return AdvanceDateByTenor(date, tenor)
}

// AdvanceDateByConvention advances date by tenor and rolls the result by rule.
func (c *Calendar) AdvanceDateByConvention(jur Jurisdiction, date Date, tenor Tenor, rule RollingRule) (Date, error) {
	d, err := c.AdjustWorkDay(jur, AdvanceDateByTenor(date, tenor), rule)
	if err != nil {
		return Date{}, fmt.Errorf("AdvanceDateByConvention: %w", err)
	}
	return d, nil
}

// CountBusinessDays counts the business days of jur in [left, right).
// It returns 0 when left >= right.
func (c *Calendar) CountBusinessDays(left, right Date, jur Jurisdiction) (int, error) {
	if !left.Valid() || !right.Valid() {
		return 0, fmt.Errorf("CountBusinessDays: %w: [%s, %s)", ErrInvalidDate, left, right)
	}
	set, err := c.set(jur)
	if err != nil {
		return 0, fmt.Errorf("CountBusinessDays: %w", err)
	}
	if !left.Before(right) {
		return 0, nil
	}

	days := right.Sub(left)
	weekends := days / 7 * 2
	wd := left.Weekday()
	for range days % 7 {
		if wd == time.Saturday || wd == time.Sunday {
			weekends++
		}
		wd = (wd + 1) % 7
	}

	holidays := 0
	for h := range set {
		if h.Before(left) || !h.Before(right) {
			continue
		}
		if hw := h.Weekday(); hw != time.Saturday && hw != time.Sunday {
			holidays++
		}
	}
	return days - weekends - holidays, nil
}

// BusinessDays rolls every date of dates by rule and drops a result equal to the one
// emitted just before it. The returned sequence is single pass whenever dates is.
func (c *Calendar) BusinessDays(dates iter.Seq[Date], jur Jurisdiction, rule RollingRule) (iter.Seq[Date], error) {
	set, err := c.set(jur)
	if err != nil {
		return nil, fmt.Errorf("BusinessDays: %w", err)
	}
	return func(yield func(Date) bool) {
		var last Date
		first := true
		for d := range dates {
			adj := set.adjust(d, rule)
			if !first && adj == last {
				continue
			}
			first, last = false, adj
			if !yield(adj) {
				return
			}
		}
	}, nil
}
