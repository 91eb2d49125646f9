package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestNewJSONConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := logger.DefaultConfig
	cfg.Format = "json"
	cfg.Level = "warn"

	l, err := logger.New(cfg, &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("calibration stalled", "pillar", "2026-01-12")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "calibration stalled", rec["msg"])
	assert.Equal(t, "2026-01-12", rec["pillar"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestUserTimeAttributesPassThrough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := logger.New(logger.DefaultConfig, &buf)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		l.Info("fixing", "time", "11:00")
		l.WithGroup("fixing").Info("published", "time", 11)
	})
	assert.Contains(t, buf.String(), "time=11:00")
	assert.Contains(t, buf.String(), "fixing.time=11")
}

func TestNewFileOutput(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "ratekit.log")
	cfg := logger.DefaultConfig
	cfg.Output = "both"
	cfg.FilePath = path

	l, err := logger.New(cfg, &console)
	require.NoError(t, err)
	l.Info("rolled curve", "today", "2027-06-02")

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rolled curve")
	assert.Contains(t, console.String(), "today=2027-06-02")

	cfg.FilePath = ""
	_, err = logger.New(cfg, &console)
	assert.Error(t, err)
}

func TestSetAndWith(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L()
	t.Cleanup(func() { logger.Set(prev) })

	l, err := logger.New(logger.DefaultConfig, &buf)
	require.NoError(t, err)
	logger.Set(l)

	logger.With("component", "curve").Info("ready")
	assert.Contains(t, buf.String(), "component=curve")
	assert.NotPanics(t, func() { logger.Discard().Error("ignored") })
}
