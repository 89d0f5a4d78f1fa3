// Package instrument attaches observability to the reactive scheduler.
// Both collectors implement reactive.FlushObserver and are registered with
// reactive.RegisterFlushObserver.
package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus flush metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lumen").
	Namespace string

	// Subsystem is the metrics subsystem (default: "scheduler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus flush metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lumen",
		Subsystem: "scheduler",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects Prometheus metrics for scheduler flushes.
//
// Metrics collected:
//   - lumen_scheduler_flushes_total: Counter of completed flushes
//   - lumen_scheduler_flush_duration_seconds: Histogram of flush duration
//   - lumen_scheduler_watchers_run_total: Counter of watcher runs
//   - lumen_scheduler_watchers_per_flush: Histogram of watchers per flush
//   - lumen_scheduler_loop_aborts_total: Counter of infinite-loop aborts
type Metrics struct {
	flushesTotal     prometheus.Counter
	flushDuration    prometheus.Histogram
	watchersRunTotal prometheus.Counter
	watchersPerFlush prometheus.Histogram
	loopAbortsTotal  prometheus.Counter

	flushStartedAt time.Time
}

// NewMetrics creates the flush metrics collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of completed scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		watchersRunTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watchers_run_total",
			Help:        "Total number of watcher runs across all flushes",
			ConstLabels: config.ConstLabels,
		}),

		watchersPerFlush: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watchers_per_flush",
			Help:        "Number of watchers run per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
		}),

		loopAbortsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "loop_aborts_total",
			Help:        "Total number of flushes aborted by the infinite update loop guard",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// FlushStart implements reactive.FlushObserver.
func (m *Metrics) FlushStart(at time.Time) {
	m.flushStartedAt = at
}

// WatcherRan implements reactive.FlushObserver.
func (m *Metrics) WatcherRan(id uint64, expression string) {
	m.watchersRunTotal.Inc()
}

// LoopAborted implements reactive.FlushObserver.
func (m *Metrics) LoopAborted(id uint64, expression string) {
	m.loopAbortsTotal.Inc()
}

// FlushEnd implements reactive.FlushObserver.
func (m *Metrics) FlushEnd(at time.Time, watchersRan int) {
	m.flushesTotal.Inc()
	m.flushDuration.Observe(at.Sub(m.flushStartedAt).Seconds())
	m.watchersPerFlush.Observe(float64(watchersRan))
}
