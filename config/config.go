// Package config holds the numerical settings of the root finder and curve calibration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/ratekit/logger"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Solver configures the Newton-Raphson root finder.
type Solver struct {
	// Tolerance is the |f(x)| threshold at which a root is accepted.
	Tolerance float64 `yaml:"tolerance" toml:"tolerance"`

	// DerivativeStep is the half width of the central difference.
	DerivativeStep float64 `yaml:"derivative_step" toml:"derivative_step"`

	// MaxIterations bounds the number of Newton steps; reaching it is a failure.
	MaxIterations int `yaml:"max_iterations" toml:"max_iterations"`
}

// Calibration configures single pillar bootstrapping.
type Calibration struct {
	// BisectionTolerance stops bisection once the discount factor bracket is this narrow.
	BisectionTolerance float64 `yaml:"bisection_tolerance" toml:"bisection_tolerance"`

	// NPVTolerance stops bisection once |NPV| falls below it.
	NPVTolerance float64 `yaml:"npv_tolerance" toml:"npv_tolerance"`

	MaxBisectionIterations int `yaml:"max_bisection_iterations" toml:"max_bisection_iterations"`

	// Refine runs the root finder inside the final bisection bracket.
	Refine bool `yaml:"refine" toml:"refine"`

	// MinDiscountFactor is the lower end of the initial bracket; a zero discount
	// factor has no finite zero rate.
	MinDiscountFactor float64 `yaml:"min_discount_factor" toml:"min_discount_factor"`
}

// Config holds solver, calibration and logging parameters.
type Config struct {
	Solver      Solver        `yaml:"solver" toml:"solver"`
	Calibration Calibration   `yaml:"calibration" toml:"calibration"`
	Log         logger.Config `yaml:"log" toml:"log"`
}

// DefaultConfig provides the values used when nothing is loaded.
var DefaultConfig = Config{
	Solver: Solver{
		Tolerance:      math.Ldexp(1, -16),
		DerivativeStep: math.Ldexp(1, -16),
		MaxIterations:  100,
	},
	Calibration: Calibration{
		BisectionTolerance:     0.001,
		NPVTolerance:           0.001,
		MaxBisectionIterations: 200,
		Refine:                 true,
		MinDiscountFactor:      1e-9,
	},
	Log: logger.DefaultConfig,
}

var (
	mu  sync.RWMutex
	cfg = DefaultConfig
)

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Validate rejects non-positive tolerances and iteration caps.
func (c Config) Validate() error {
	var errs []error
	if !(c.Solver.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("solver.tolerance must be positive, got %g", c.Solver.Tolerance))
	}
	if !(c.Solver.DerivativeStep > 0) {
		errs = append(errs, fmt.Errorf("solver.derivative_step must be positive, got %g", c.Solver.DerivativeStep))
	}
	if c.Solver.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("solver.max_iterations must be positive, got %d", c.Solver.MaxIterations))
	}
	if !(c.Calibration.BisectionTolerance > 0) {
		errs = append(errs, fmt.Errorf("calibration.bisection_tolerance must be positive, got %g", c.Calibration.BisectionTolerance))
	}
	if !(c.Calibration.NPVTolerance > 0) {
		errs = append(errs, fmt.Errorf("calibration.npv_tolerance must be positive, got %g", c.Calibration.NPVTolerance))
	}
	if c.Calibration.MaxBisectionIterations <= 0 {
		errs = append(errs, fmt.Errorf("calibration.max_bisection_iterations must be positive, got %d", c.Calibration.MaxBisectionIterations))
	}
	if !(c.Calibration.MinDiscountFactor > 0 && c.Calibration.MinDiscountFactor < 1) {
		errs = append(errs, fmt.Errorf("calibration.min_discount_factor must be in (0, 1), got %g", c.Calibration.MinDiscountFactor))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Format is a configuration file format.
type Format int

const (
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "auto"
	}
}

// DetectFormat picks the format from the file extension; anything other than
// .yaml/.yml is read as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads path on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	return LoadFormat(path, FormatAuto)
}

// LoadFormat is Load with an explicit format.
func LoadFormat(path string, format Format) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	c, err := Parse(content, format)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes content over DefaultConfig, so omitted keys keep their defaults.
func Parse(content []byte, format Format) (Config, error) {
	c := DefaultConfig
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &c); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(content), &c); err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: format %s", ErrInvalidConfig, format)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
