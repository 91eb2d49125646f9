// Package rate provides the interest rate value used by curves and swaps.
package rate

import (
	"cmp"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Percent is an interest rate stored as a plain fraction, so 5% is 0.05.
// The zero value is a zero rate.
type Percent struct {
	fraction float64
}

var Zero = Percent{}

func FromFraction(f float64) Percent     { return Percent{fraction: f} }
func FromPercentage(p float64) Percent   { return Percent{fraction: p / 100} }
func FromBasisPoints(bp float64) Percent { return Percent{fraction: bp / 10000} }

func (p Percent) Fraction() float64    { return p.fraction }
func (p Percent) Percentage() float64  { return p.fraction * 100 }
func (p Percent) BasisPoints() float64 { return p.fraction * 10000 }

func (p Percent) Add(o Percent) Percent { return Percent{fraction: p.fraction + o.fraction} }
func (p Percent) Sub(o Percent) Percent { return Percent{fraction: p.fraction - o.fraction} }

// Mul scales the rate by a dimensionless factor, e.g. a day count fraction.
func (p Percent) Mul(k float64) Percent { return Percent{fraction: p.fraction * k} }
func (p Percent) Div(k float64) Percent { return Percent{fraction: p.fraction / k} }

func (p Percent) Neg() Percent { return Percent{fraction: -p.fraction} }
func (p Percent) Abs() Percent { return Percent{fraction: math.Abs(p.fraction)} }

func (p Percent) Compare(o Percent) int { return cmp.Compare(p.fraction, o.fraction) }
func (p Percent) IsZero() bool          { return p.fraction == 0 }
func (p Percent) IsPositive() bool      { return p.fraction > 0 }

// Apply returns principal * rate.
func (p Percent) Apply(principal decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromFloat(p.fraction))
}

// ApplyFloat is Apply for float amounts.
func (p Percent) ApplyFloat(principal float64) float64 { return principal * p.fraction }

// String formats the rate as a percentage, e.g. "4.25%".
func (p Percent) String() string {
	return strconv.FormatFloat(math.Round(p.Percentage()*1e10)/1e10, 'f', -1, 64) + "%"
}

func (p Percent) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.fraction, 'g', -1, 64)), nil
}

// UnmarshalText reads a plain fraction ("0.0425"), a percentage ("4.25%") or basis
// points ("425bp").
func (p *Percent) UnmarshalText(b []byte) error {
	s := string(b)
	scale := 1.0
	switch {
	case len(s) > 1 && s[len(s)-1] == '%':
		s, scale = s[:len(s)-1], 100
	case len(s) > 2 && (s[len(s)-2:] == "bp" || s[len(s)-2:] == "BP"):
		s, scale = s[:len(s)-2], 10000
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	p.fraction = v / scale
	return nil
}
