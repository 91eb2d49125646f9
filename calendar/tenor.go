package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTenor is returned for tenor strings that cannot be parsed.
var ErrInvalidTenor = errors.New("invalid tenor")

// TimeUnit is the unit of a Tenor.
type TimeUnit int

const (
	Day TimeUnit = iota
	Week
	Month
	Year
)

func (u TimeUnit) String() string {
	switch u {
	case Day:
		return "D"
	case Week:
		return "W"
	case Month:
		return "M"
	case Year:
		return "Y"
	default:
		return "?"
	}
}

// Tenor is a relative date offset such as 1W, 3M or 10Y.
type Tenor struct {
	Count int
	Unit  TimeUnit
}

func Days(n int) Tenor   { return Tenor{Count: n, Unit: Day} }
func Weeks(n int) Tenor  { return Tenor{Count: n, Unit: Week} }
func Months(n int) Tenor { return Tenor{Count: n, Unit: Month} }
func Years(n int) Tenor  { return Tenor{Count: n, Unit: Year} }

func (t Tenor) String() string {
	return strconv.Itoa(t.Count) + t.Unit.String()
}

// Negate returns the same offset in the opposite direction.
func (t Tenor) Negate() Tenor {
	return Tenor{Count: -t.Count, Unit: t.Unit}
}

// IsPositive reports whether the tenor moves a date forward.
func (t Tenor) IsPositive() bool { return t.Count > 0 }

// ParseTenor converts tenor strings like "1W", "3M", "10Y" or "2D" to a Tenor.
func ParseTenor(s string) (Tenor, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Tenor{}, fmt.Errorf("%w: %q", ErrInvalidTenor, s)
	}
	var unit TimeUnit
	switch s[len(s)-1] {
	case 'D':
		unit = Day
	case 'W':
		unit = Week
	case 'M':
		unit = Month
	case 'Y':
		unit = Year
	default:
		return Tenor{}, fmt.Errorf("%w: %q", ErrInvalidTenor, s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Tenor{}, fmt.Errorf("%w: %q", ErrInvalidTenor, s)
	}
	return Tenor{Count: n, Unit: unit}, nil
}

func (t Tenor) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tenor) UnmarshalText(b []byte) error {
	parsed, err := ParseTenor(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Frequency is a regular schedule frequency.
type Frequency int

const (
	Annual Frequency = iota
	SemiAnnual
	Quarterly
	Monthly
	Daily
)

func (f Frequency) String() string {
	switch f {
	case Annual:
		return "ANNUAL"
	case SemiAnnual:
		return "SEMIANNUAL"
	case Quarterly:
		return "QUARTERLY"
	case Monthly:
		return "MONTHLY"
	case Daily:
		return "DAILY"
	default:
		return "UNKNOWN"
	}
}

// Tenor returns the step between two consecutive dates of the frequency.
func (f Frequency) Tenor() Tenor {
	switch f {
	case Annual:
		return Months(12)
	case SemiAnnual:
		return Months(6)
	case Quarterly:
		return Months(3)
	case Monthly:
		return Months(1)
	default:
		return Days(1)
	}
}

// ParseFrequency accepts the String form as well as the usual short tenor aliases (12M, 6M, 3M, 1M, 1D).
func ParseFrequency(s string) (Frequency, error) {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "ANNUAL", "ANNUALLY", "1Y", "12M":
		return Annual, nil
	case "SEMIANNUAL", "SEMI", "6M":
		return SemiAnnual, nil
	case "QUARTERLY", "3M":
		return Quarterly, nil
	case "MONTHLY", "1M":
		return Monthly, nil
	case "DAILY", "1D":
		return Daily, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", s)
}

// RollingRule maps a non-business date to a business date.
type RollingRule int

const (
	Following RollingRule = iota
	Preceding
	ModifiedFollowing
	Unadjusted
)

func (r RollingRule) String() string {
	switch r {
	case Following:
		return "FOLLOWING"
	case Preceding:
		return "PRECEDING"
	case ModifiedFollowing:
		return "MODIFIED_FOLLOWING"
	case Unadjusted:
		return "UNADJUSTED"
	default:
		return "UNKNOWN"
	}
}

func ParseRollingRule(s string) (RollingRule, error) {
	switch strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(s)), "-", "_") {
	case "FOLLOWING", "F":
		return Following, nil
	case "PRECEDING", "P":
		return Preceding, nil
	case "MODIFIED_FOLLOWING", "MODIFIEDFOLLOWING", "MF":
		return ModifiedFollowing, nil
	case "UNADJUSTED", "NONE":
		return Unadjusted, nil
	}
	return 0, fmt.Errorf("unknown rolling rule %q", s)
}
