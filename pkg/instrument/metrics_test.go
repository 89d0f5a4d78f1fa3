package instrument

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

func TestMetricsCollectFlush(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	start := time.Now()
	m.FlushStart(start)
	m.WatcherRan(1, "fn")
	m.WatcherRan(2, "a.b")
	m.FlushEnd(start.Add(5*time.Millisecond), 2)

	require.Equal(t, 1.0, testutil.ToFloat64(m.flushesTotal))
	require.Equal(t, 2.0, testutil.ToFloat64(m.watchersRunTotal))
	require.Equal(t, 0.0, testutil.ToFloat64(m.loopAbortsTotal))
}

func TestMetricsCountLoopAborts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.FlushStart(time.Now())
	m.WatcherRan(1, "fn")
	m.LoopAborted(1, "fn")
	m.FlushEnd(time.Now(), 1)

	require.Equal(t, 1.0, testutil.ToFloat64(m.loopAbortsTotal))
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("custom"),
		WithSubsystem("core"),
		WithConstLabels(prometheus.Labels{"app": "test"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.FlushStart(time.Now())
	m.FlushEnd(time.Now(), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["custom_core_flushes_total"], "expected renamed metric, got %v", names)
}

func TestMetricsAsFlushObserver(t *testing.T) {
	// The collector satisfies the scheduler's observer seam.
	reg := prometheus.NewRegistry()
	var obs reactive.FlushObserver = NewMetrics(WithRegistry(reg))
	require.NotNil(t, obs)
}
