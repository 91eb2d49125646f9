package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.DefaultConfig.Validate())
	assert.InDelta(t, 1.0/65536, config.DefaultConfig.Solver.Tolerance, 0)
	assert.Equal(t, 100, config.DefaultConfig.Solver.MaxIterations)
	assert.InDelta(t, 0.001, config.DefaultConfig.Calibration.BisectionTolerance, 0)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	t.Parallel()

	c := config.DefaultConfig
	c.Solver.Tolerance = 0
	c.Calibration.MaxBisectionIterations = -1
	c.Calibration.MinDiscountFactor = 1

	err := c.Validate()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "solver.tolerance")
	assert.Contains(t, err.Error(), "calibration.max_bisection_iterations")
	assert.Contains(t, err.Error(), "calibration.min_discount_factor")
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
solver:
  max_iterations: 250
calibration:
  refine: false
log:
  level: debug
  format: json
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, c.Solver.MaxIterations)
	assert.InDelta(t, config.DefaultConfig.Solver.Tolerance, c.Solver.Tolerance, 0)
	assert.False(t, c.Calibration.Refine)
	assert.Equal(t, 200, c.Calibration.MaxBisectionIterations)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "stderr", c.Log.Output)
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratekit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[solver]
tolerance = 1e-10

[calibration]
npv_tolerance = 0.01
`), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 1e-10, c.Solver.Tolerance, 0)
	assert.InDelta(t, 0.01, c.Calibration.NPVTolerance, 0)
	assert.True(t, c.Calibration.Refine)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("solver:\n  max_iterations: 0\n"), 0o600))
	_, err := config.Load(bad)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[solver\n"), 0o600))
	_, err = config.Load(broken)
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.FormatYAML, config.DetectFormat("a/b.YML"))
	assert.Equal(t, config.FormatYAML, config.DetectFormat("x.yaml"))
	assert.Equal(t, config.FormatTOML, config.DetectFormat("x.toml"))
	assert.Equal(t, config.FormatTOML, config.DetectFormat("x.conf"))
}

func TestSetConfig(t *testing.T) {
	prev := config.GetConfig()
	t.Cleanup(func() { config.SetConfig(prev) })

	c := config.DefaultConfig
	c.Solver.MaxIterations = 7
	config.SetConfig(c)
	assert.Equal(t, 7, config.GetConfig().Solver.MaxIterations)
}
