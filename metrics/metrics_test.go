package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratekit/metrics"
)

func TestObserveCalibration(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	m.ObserveCalibration(metrics.OutcomeConverged, 12, time.Millisecond)
	m.ObserveCalibration(metrics.OutcomeConverged, 9, time.Millisecond)
	m.ObserveCalibration(metrics.OutcomeIncomplete, 1, time.Microsecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CalibrationsTotal.WithLabelValues(metrics.OutcomeConverged)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CalibrationsTotal.WithLabelValues(metrics.OutcomeIncomplete)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.CalibrationIterations))
}

func TestObserveRootFinderAndValuations(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	m.ObserveRootFinder(4, true)
	m.ObserveRootFinder(100, false)
	m.IncrementValuation("ok")
	m.IncrementValuation("ok")

	assert.Equal(t, 2, testutil.CollectAndCount(m.RootFinderIterations))
	assert.InDelta(t, 2, testutil.ToFloat64(m.ValuationsTotal.WithLabelValues("ok")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalibration(metrics.OutcomeFailed, 1, time.Second)
		m.ObserveRootFinder(1, true)
		m.IncrementValuation("error")
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	m.ObserveCalibration(metrics.OutcomeConverged, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "ratekit.prom")
	require.NoError(t, m.WriteTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ratekit_calibrations_total{outcome="converged"} 1`)
	assert.Same(t, metrics.Default(), metrics.Default())
}
