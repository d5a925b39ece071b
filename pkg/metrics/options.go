package metrics

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the "kdrama" namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the "dashboard" subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithMetricPrefix prepends prefix to every metric name.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets of the search, ranking,
// HTTP and error latency histograms.
func WithLatencyBuckets(buckets []float64) Option {
	return func(m *Manager) { setBuckets(&m.latencyBuckets, buckets) }
}

// WithLoadBuckets sets the millisecond buckets of the dataset load histogram.
func WithLoadBuckets(buckets []float64) Option {
	return func(m *Manager) { setBuckets(&m.loadBuckets, buckets) }
}

// WithGroupBuckets sets the buckets of the contributors-per-ranking histogram.
func WithGroupBuckets(buckets []float64) Option {
	return func(m *Manager) { setBuckets(&m.groupBuckets, buckets) }
}

// setBuckets ignores empty or unsorted bucket lists.
func setBuckets(dst *[]float64, buckets []float64) {
	if len(buckets) == 0 || !slices.IsSorted(buckets) {
		return
	}
	*dst = slices.Clone(buckets)
}

// WithMetricsEnabled turns recording on or off. Metrics are still registered.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often callers should refresh system gauges.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithCustomLabels attaches constant labels, e.g. the deployment, to every metric.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.customLabels = labels
		}
	}
}

// WithPrometheusRegistry registers the metrics on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
