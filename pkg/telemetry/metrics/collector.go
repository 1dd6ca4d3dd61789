package metrics

import (
	"time"

	"mercator-hq/yamllist/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the Prometheus registry and every yamllist metric.
//
// A nil *Collector, or one built from a disabled MetricsConfig, accepts all
// Record calls and does nothing, so callers never need to check.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	listMetrics    *ListMetrics
	historyMetrics *HistoryMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a new private
// registry carrying the Go runtime and process collectors is used.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordList("native", metrics.OutcomeSuccess, "", d, len(doc))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if len(cfg.InputSizeBuckets) == 0 {
		cfg.InputSizeBuckets = append([]float64(nil), config.DefaultInputSizeBuckets...)
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		listMetrics:    NewListMetrics(cfg, registry),
		historyMetrics: NewHistoryMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordList records a completed list invocation.
//
// Parameters:
//   - engine: engine name ("native", "yamlv3")
//   - outcome: OutcomeSuccess or OutcomeError
//   - kind: error kind for failures (e.g. "DuplicateKey")
//   - duration: time spent parsing and rendering
//   - inputBytes: document size
func (c *Collector) RecordList(engine, outcome, kind string, duration time.Duration, inputBytes int) {
	if !c.enabled() {
		return
	}
	c.listMetrics.Record(engine, outcome, kind, duration, inputBytes)
}

// RecordHistoryStored counts a record written to the history store.
func (c *Collector) RecordHistoryStored(backend string) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordStored(backend)
}

// RecordHistoryPruned counts records removed by retention.
func (c *Collector) RecordHistoryPruned(reason string, n int64) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordPruned(reason, n)
}

// RecordHistoryError counts a failed history operation.
func (c *Collector) RecordHistoryError(operation string) {
	if !c.enabled() {
		return
	}
	c.historyMetrics.RecordError(operation)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
