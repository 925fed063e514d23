// Package metrics exports route table events as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routetable/pkg/router"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "routetable").
	Namespace string

	// Buckets are the histogram buckets for match duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the match duration buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "routetable",
		Buckets:   []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001, .005},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics implements router.Observer.
type Metrics struct {
	loadsTotal    *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	loadErrors    prometheus.Counter
	generation    prometheus.Gauge
	routes        prometheus.Gauge
	matchesTotal  *prometheus.CounterVec
	missesTotal   prometheus.Counter
	matchDuration prometheus.Histogram
}

var _ router.Observer = (*Metrics)(nil)

// New registers the collectors and returns the observer.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "loads_total",
				Help:      "Total number of route table loads by result",
			},
			[]string{"result"},
		),
		loadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "load_duration_seconds",
				Help:      "Time spent compiling route tables",
				Buckets:   prometheus.DefBuckets,
			},
		),
		loadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "load_errors_total",
				Help:      "Total number of build errors in rejected loads",
			},
		),
		generation: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "generation",
				Help:      "Generation of the live route table",
			},
		),
		routes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "routes",
				Help:      "Number of patterns in the live route table",
			},
		),
		matchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "matches_total",
				Help:      "Total number of matched paths by pattern",
			},
			[]string{"route"},
		),
		missesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "misses_total",
				Help:      "Total number of paths no pattern matched",
			},
		),
		matchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "match_duration_seconds",
				Help:      "Time spent matching a path",
				Buckets:   cfg.Buckets,
			},
		),
	}
}

// TableLoaded records a published table.
func (m *Metrics) TableLoaded(generation uint64, routes int, elapsed time.Duration) {
	m.loadsTotal.WithLabelValues("ok").Inc()
	m.loadDuration.Observe(elapsed.Seconds())
	m.generation.Set(float64(generation))
	m.routes.Set(float64(routes))
}

// LoadFailed records a rejected reload.
func (m *Metrics) LoadFailed(errs int, elapsed time.Duration) {
	m.loadsTotal.WithLabelValues("error").Inc()
	m.loadDuration.Observe(elapsed.Seconds())
	m.loadErrors.Add(float64(errs))
}

// Matched records one match attempt.
func (m *Metrics) Matched(id string, ok bool, elapsed time.Duration) {
	if ok {
		m.matchesTotal.WithLabelValues(id).Inc()
	} else {
		m.missesTotal.Inc()
	}
	m.matchDuration.Observe(elapsed.Seconds())
}
