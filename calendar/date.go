package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a year/month/day triple does not name a real calendar day.
var ErrInvalidDate = errors.New("invalid date")

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// Date is a calendar date without time of day or location.
//
// Unlike time.Time, a Date keeps the literal year/month/day it was built from, so an
// impossible day such as 2025-02-30 is representable and reported by Valid.
// The zero value is not a valid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date year-month-day without normalisation.
func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate converts YYYY-MM-DD to a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("ParseDate: %w", err)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Valid reports whether d names an existing day of the proleptic Gregorian calendar.
func (d Date) Valid() bool {
	if d.month < time.January || d.month > time.December {
		return false
	}
	return d.day >= 1 && d.day <= daysInMonth(d.year, d.month)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

// NextDay returns the following calendar day.
func (d Date) NextDay() Date { return d.AddDays(1) }

// PreviousDay returns the preceding calendar day.
func (d Date) PreviousDay() Date { return d.AddDays(-1) }

// AddDays moves d by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths behaves like Excel's EDATE: the day is clamped to the last day of the
// resulting month instead of overflowing into the next one.
func (d Date) AddMonths(months int) Date {
	first := time.Date(d.year, d.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := min(d.day, daysInMonth(first.Year(), first.Month()))
	return Date{year: first.Year(), month: first.Month(), day: day}
}

// AddYears is AddMonths(12*years).
func (d Date) AddYears(years int) Date { return d.AddMonths(12 * years) }

// Sub returns the signed number of days d - other.
func (d Date) Sub(other Date) int {
	return int((d.Time().Unix() - other.Time().Unix()) / secondsPerDay)
}

// LastMonthDay returns the number of the last day in d's month.
func (d Date) LastMonthDay() int { return daysInMonth(d.year, d.month) }

func (d Date) IsLastMonthDay() bool { return d.day == d.LastMonthDay() }

// NextYearBeginning returns January 1st of the year after d.
func (d Date) NextYearBeginning() Date { return Date{year: d.year + 1, month: time.January, day: 1} }

// DaysInYear returns 366 for leap years and 365 otherwise.
func (d Date) DaysInYear() int {
	if isLeap(d.year) {
		return 366
	}
	return 365
}

// DaysTillEndOfYear counts the days from d up to (excluding) January 1st of the next year.
func (d Date) DaysTillEndOfYear() int {
	return d.NextYearBeginning().Sub(d)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}
