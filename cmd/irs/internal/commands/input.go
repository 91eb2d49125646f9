package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/ratekit/calendar"
	"github.com/meenmo/ratekit/curve"
	"github.com/meenmo/ratekit/logger"
	"github.com/meenmo/ratekit/rate"
	"github.com/meenmo/ratekit/swap"
)

// TradeInput is the trade file schema.
//
// Conventions:
// - dates are YYYY-MM-DD
// - rates are in percent (e.g., 2.50 means 2.50%)
// - spreads are in bp (e.g., 10 means +10bp)
type TradeInput struct {
	Today        string   `json:"today" yaml:"today"`
	Jurisdiction string   `json:"jurisdiction" yaml:"jurisdiction"`
	Holidays     []string `json:"holidays" yaml:"holidays"`

	// Curve maps pillar dates to zero rates.
	Curve map[string]float64 `json:"curve" yaml:"curve"`

	// Interpolation is "linear" (default) or "loglinear".
	Interpolation string `json:"interpolation" yaml:"interpolation"`

	Swaps []SwapInput `json:"swaps" yaml:"swaps"`
}

// SwapInput describes one swap.
//
// The simple builder (default) uses Settlement, Maturity and frequency names
// (ANNUAL, SEMIANNUAL, QUARTERLY, MONTHLY, DAILY). The term builder uses TradeDate,
// the business day shifts and tenors (1W, 3M, 2Y) for frequencies and terms.
type SwapInput struct {
	Builder string `json:"builder" yaml:"builder"`

	Settlement string `json:"settlement" yaml:"settlement"`
	Maturity   string `json:"maturity" yaml:"maturity"`

	TradeDate    string `json:"trade_date" yaml:"trade_date"`
	StartShift   int    `json:"start_shift" yaml:"start_shift"`
	PaymentShift int    `json:"payment_shift" yaml:"payment_shift"`
	FixedTerm    string `json:"fixed_term" yaml:"fixed_term"`
	FloatTerm    string `json:"float_term" yaml:"float_term"`
	Stub         string `json:"stub" yaml:"stub"`

	FixedFrequency string `json:"fixed_frequency" yaml:"fixed_frequency"`
	FloatFrequency string `json:"float_frequency" yaml:"float_frequency"`
	Rule           string `json:"rule" yaml:"rule"`
	DayCount       string `json:"day_count" yaml:"day_count"`

	Coupon   float64 `json:"coupon" yaml:"coupon"`
	SpreadBP float64 `json:"spread_bp" yaml:"spread_bp"`
	Notional float64 `json:"notional" yaml:"notional"`

	// Direction is PAY (pay fixed, receive floating) or REC (receive fixed, pay floating).
	Direction string `json:"direction" yaml:"direction"`
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func (a *app) readTrade() (*TradeInput, error) {
	raw, err := readInput(a.stdin, strings.TrimSpace(a.inputPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var in TradeInput
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return nil, fmt.Errorf("failed to parse JSON input: %w", err)
		}
	} else if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}
	if len(in.Swaps) == 0 && len(in.Curve) == 0 {
		return nil, fmt.Errorf("input has neither swaps nor curve")
	}
	return &in, nil
}

func parseDate(field, s string) (calendar.Date, error) {
	d, err := calendar.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

// calendar builds the holiday calendar from the trade file and the --holiday and
// --holiday-range flags.
func (a *app) calendar(in *TradeInput) (*calendar.Calendar, calendar.Jurisdiction, error) {
	jur := calendar.Jurisdiction(strings.TrimSpace(in.Jurisdiction))
	cal := calendar.New()
	if err := cal.Register(jur); err != nil {
		return nil, "", fmt.Errorf("jurisdiction: %w", err)
	}

	b := cal.StaticInit()
	for _, h := range in.Holidays {
		d, err := parseDate("holiday", h)
		if err != nil {
			return nil, "", err
		}
		b.Holiday(jur, d)
	}
	for _, raw := range a.holidays {
		j, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, "", fmt.Errorf("invalid --holiday %q (want JUR=YYYY-MM-DD)", raw)
		}
		d, err := parseDate("--holiday", value)
		if err != nil {
			return nil, "", err
		}
		b.Holiday(calendar.Jurisdiction(j), d)
	}
	for _, raw := range a.holidayRanges {
		j, value, ok := strings.Cut(raw, "=")
		from, to, ok2 := strings.Cut(value, "..")
		if !ok || !ok2 {
			return nil, "", fmt.Errorf("invalid --holiday-range %q (want JUR=FROM..TO)", raw)
		}
		fd, err := parseDate("--holiday-range", from)
		if err != nil {
			return nil, "", err
		}
		td, err := parseDate("--holiday-range", to)
		if err != nil {
			return nil, "", err
		}
		b.HolidayRange(calendar.Jurisdiction(j), fd, td)
	}
	if err := b.Err(); err != nil {
		return nil, "", err
	}
	return cal, jur, nil
}

func parseInterpolation(s string) (curve.Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return curve.Linear{}, nil
	case "loglinear", "log-linear", "log_linear":
		return curve.NewLogLinear(curve.DefaultDayCount), nil
	}
	return nil, fmt.Errorf("unknown interpolation %q (use linear or loglinear)", s)
}

// curve builds the curve as of in.Today with the pillars of the trade file.
func (in *TradeInput) curve(cal *calendar.Calendar, jur calendar.Jurisdiction) (*curve.Curve, error) {
	today, err := parseDate("today", in.Today)
	if err != nil {
		return nil, err
	}

	crv := curve.New()
	b := crv.StaticInit().
		SetJurisdiction(jur).
		SetCalendar(cal).
		SetToday(today).
		SetLogger(logger.With("component", "curve"))
	for _, key := range slices.Sorted(maps.Keys(in.Curve)) {
		d, err := parseDate("curve pillar", key)
		if err != nil {
			return nil, err
		}
		b.Pillar(d, rate.FromPercentage(in.Curve[key]))
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return crv, nil
}

func (in *TradeInput) contracts(cal *calendar.Calendar, jur calendar.Jurisdiction) ([]*swap.Contract, error) {
	strategy, err := parseInterpolation(in.Interpolation)
	if err != nil {
		return nil, err
	}
	if len(in.Swaps) == 0 {
		return nil, fmt.Errorf("swaps is required")
	}

	out := make([]*swap.Contract, 0, len(in.Swaps))
	for i, s := range in.Swaps {
		c, err := s.build(cal, jur, strategy)
		if err != nil {
			return nil, fmt.Errorf("swaps[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

type economics struct {
	coupon   rate.Percent
	spread   rate.Percent
	notional decimal.Decimal
	payFixed bool
	rule     calendar.RollingRule
	dayCount calendar.DayCount
}

func (s SwapInput) economics() (economics, error) {
	e := economics{
		coupon:   rate.FromPercentage(s.Coupon),
		spread:   rate.FromBasisPoints(s.SpreadBP),
		notional: decimal.NewFromFloat(s.Notional),
		rule:     calendar.Following,
		dayCount: curve.DefaultDayCount,
	}
	if s.Notional == 0 {
		return e, fmt.Errorf("notional is required")
	}

	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s.Direction), "-", "_")) {
	case "PAY", "PAY_FIXED":
		e.payFixed = true
	case "REC", "REC_FIXED":
		e.payFixed = false
	case "":
		return e, fmt.Errorf("direction is required (PAY or REC)")
	default:
		return e, fmt.Errorf("invalid direction %q (use PAY or REC)", s.Direction)
	}

	var err error
	if s.Rule != "" {
		if e.rule, err = calendar.ParseRollingRule(s.Rule); err != nil {
			return e, err
		}
	}
	if s.DayCount != "" {
		if e.dayCount, err = calendar.ParseDayCount(s.DayCount); err != nil {
			return e, err
		}
	}
	return e, nil
}

func (s SwapInput) build(cal *calendar.Calendar, jur calendar.Jurisdiction, strategy curve.Interpolation) (*swap.Contract, error) {
	e, err := s.economics()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(s.Builder)) {
	case "", "simple":
		return s.buildSimple(cal, jur, strategy, e)
	case "term":
		return s.buildTerm(cal, jur, strategy, e)
	default:
		return nil, fmt.Errorf("unknown builder %q (use simple or term)", s.Builder)
	}
}

func (s SwapInput) buildSimple(cal *calendar.Calendar, jur calendar.Jurisdiction, strategy curve.Interpolation, e economics) (*swap.Contract, error) {
	settlement, err := parseDate("settlement", s.Settlement)
	if err != nil {
		return nil, err
	}
	maturity, err := parseDate("maturity", s.Maturity)
	if err != nil {
		return nil, err
	}
	fixedFreq, err := calendar.ParseFrequency(s.FixedFrequency)
	if err != nil {
		return nil, fmt.Errorf("fixed_frequency: %w", err)
	}
	floatFreq, err := calendar.ParseFrequency(s.FloatFrequency)
	if err != nil {
		return nil, fmt.Errorf("float_frequency: %w", err)
	}

	return swap.NewBuilder().
		Settlement(settlement).
		Maturity(maturity).
		FixedFrequency(fixedFreq).
		FloatFrequency(floatFreq).
		Coupon(e.coupon).
		Spread(e.spread).
		Notional(e.notional).
		PayFixed(e.payFixed).
		Rule(e.rule).
		DayCount(e.dayCount).
		Interpolation(strategy).
		Build(cal, jur)
}

func (s SwapInput) buildTerm(cal *calendar.Calendar, jur calendar.Jurisdiction, strategy curve.Interpolation, e economics) (*swap.Contract, error) {
	trade, err := parseDate("trade_date", s.TradeDate)
	if err != nil {
		return nil, err
	}
	tenors := make([]calendar.Tenor, 4)
	for i, field := range []struct{ name, value string }{
		{"fixed_frequency", s.FixedFrequency},
		{"fixed_term", s.FixedTerm},
		{"float_frequency", s.FloatFrequency},
		{"float_term", s.FloatTerm},
	} {
		if tenors[i], err = calendar.ParseTenor(field.value); err != nil {
			return nil, fmt.Errorf("%s: %w", field.name, err)
		}
	}
	stub := swap.StubShort
	if s.Stub != "" {
		if stub, err = swap.ParseStub(s.Stub); err != nil {
			return nil, err
		}
	}

	return swap.NewTermBuilder().
		TradeDate(trade).
		StartShift(s.StartShift).
		PaymentShift(s.PaymentShift).
		FixedLeg(tenors[0], tenors[1]).
		FloatLeg(tenors[2], tenors[3]).
		Stub(stub).
		Coupon(e.coupon).
		Spread(e.spread).
		Notional(e.notional).
		PayFixed(e.payFixed).
		Rule(e.rule).
		DayCount(e.dayCount).
		Interpolation(strategy).
		Build(cal, jur)
}
