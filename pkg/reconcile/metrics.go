package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

// MetricsConfig configures the reconciler's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vpatch").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for diff and apply duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the reconciler's Prometheus metrics.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "vpatch",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the reconciler's Prometheus collectors.
//
// Metrics collected:
//   - vpatch_diffs_total: Counter of diffs computed
//   - vpatch_patches_total: Counter of patches applied, by kind
//   - vpatch_diff_duration_seconds: Histogram of diff duration
//   - vpatch_apply_duration_seconds: Histogram of patch application duration
//   - vpatch_errors_total: Counter of failed updates, by error code
//   - vpatch_root_replacements_total: Counter of updates that replaced the root
type Metrics struct {
	diffsTotal       prometheus.Counter
	patchesTotal     *prometheus.CounterVec
	diffDuration     prometheus.Histogram
	applyDuration    prometheus.Histogram
	errorsTotal      *prometheus.CounterVec
	rootReplacements prometheus.Counter
}

// NewMetrics creates and registers the reconciler metrics. Registering
// twice with the same registry panics, as with any Prometheus collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		diffsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diffs_total",
			Help:        "Total number of tree diffs computed",
			ConstLabels: config.ConstLabels,
		}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches applied, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		diffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_duration_seconds",
			Help:        "Tree diff duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "apply_duration_seconds",
			Help:        "Patch application duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed updates, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		rootReplacements: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "root_replacements_total",
			Help:        "Total number of updates that replaced the root node",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observeDiff(d time.Duration) {
	if m == nil {
		return
	}
	m.diffsTotal.Inc()
	m.diffDuration.Observe(d.Seconds())
}

func (m *Metrics) observeApply(d time.Duration, ps *vdom.PatchSet, rootReplaced bool) {
	if m == nil {
		return
	}
	m.applyDuration.Observe(d.Seconds())
	ps.Each(func(_ int, patches []vdom.Patch) {
		for _, p := range patches {
			m.patchesTotal.WithLabelValues(p.Kind.String()).Inc()
		}
	})
	if rootReplaced {
		m.rootReplacements.Inc()
	}
}

func (m *Metrics) observeError(err error) {
	if m == nil {
		return
	}
	code := errors.CodeOf(err)
	if code == "" {
		code = "unknown"
	}
	m.errorsTotal.WithLabelValues(code).Inc()
}
