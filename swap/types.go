// Package swap builds fixed/floating interest rate swap schedules and prices them
// against a curve.Curve.
package swap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meenmo/ratekit/calendar"
)

var (
	// ErrMissingField is returned by Build when a required builder field was never set.
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidFrequency = errors.New("frequency must be positive")
	ErrInvalidSchedule  = errors.New("invalid schedule")
)

// NoLink marks the chronological head (Prev) or tail (Next) of a contract.
const NoLink = -1

// PaymentPeriod is one accrual period of a leg.
//
// Bounds are business-day adjusted. Payment is absent on floating periods until a
// curve has been applied. Prev and Next index the contract arena in chronological
// order across both legs.
type PaymentPeriod struct {
	Bounds     calendar.Period
	Settlement calendar.Date
	Payment    decimal.NullDecimal
	Prev       int
	Next       int
}

func (p PaymentPeriod) Since() calendar.Date { return p.Bounds.Since() }
func (p PaymentPeriod) Until() calendar.Date { return p.Bounds.Until() }

// HasKnownPayment reports whether Payment is set.
func (p PaymentPeriod) HasKnownPayment() bool { return p.Payment.Valid }

func (p PaymentPeriod) ChronoFirst() bool { return p.Prev == NoLink }
func (p PaymentPeriod) ChronoLast() bool  { return p.Next == NoLink }

func newPeriod(since, until, settlement calendar.Date) PaymentPeriod {
	return PaymentPeriod{
		Bounds:     calendar.NewPeriod(since, until),
		Settlement: settlement,
		Prev:       NoLink,
		Next:       NoLink,
	}
}

// Stub selects how the builder treats an irregular period at the front of a leg.
type Stub int

const (
	// StubShort folds a short front leftover into the following regular period.
	StubShort Stub = iota
	// StubSeparate keeps the leftover as its own stub period.
	StubSeparate
)

func (s Stub) String() string {
	switch s {
	case StubShort:
		return "SHORT"
	case StubSeparate:
		return "SEPARATE"
	default:
		return "UNKNOWN"
	}
}

func ParseStub(s string) (Stub, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SHORT":
		return StubShort, nil
	case "SEPARATE":
		return StubSeparate, nil
	}
	return 0, fmt.Errorf("unknown stub policy %q", s)
}
