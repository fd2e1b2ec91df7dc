package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of a Router.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vroute",
		Subsystem: "router",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by every Router it is passed to.
// A nil *Metrics records nothing.
type Metrics struct {
	navigations prometheus.Counter
	resolutions *prometheus.CounterVec
	unmatched   prometheus.Counter
	mounted     prometheus.Gauge
	subscribers prometheus.Gauge
}

// NewMetrics registers the router collectors.
//
// Metrics collected:
//   - vroute_router_navigations_total: navigations observed
//   - vroute_router_resolutions_total: Switch resolutions, by route pattern
//   - vroute_router_unmatched_total: Switch resolutions with no route
//   - vroute_router_mounted: routers currently mounted
//   - vroute_router_subscribers: location subscribers currently registered
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations observed by mounted routers",
			ConstLabels: config.ConstLabels,
		}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of locations resolved to a route",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern"}),

		unmatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unmatched_total",
			Help:        "Total number of locations that matched no route",
			ConstLabels: config.ConstLabels,
		}),

		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted",
			Help:        "Number of mounted routers",
			ConstLabels: config.ConstLabels,
		}),

		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers",
			Help:        "Number of registered location subscribers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordNavigation() {
	if m == nil {
		return
	}
	m.navigations.Inc()
}

func (m *Metrics) recordResolution(pattern string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(pattern).Inc()
}

func (m *Metrics) recordUnmatched() {
	if m == nil {
		return
	}
	m.unmatched.Inc()
}

func (m *Metrics) mountedDelta(d float64) {
	if m == nil {
		return
	}
	m.mounted.Add(d)
}

func (m *Metrics) subscribersDelta(d float64) {
	if m == nil {
		return
	}
	m.subscribers.Add(d)
}
