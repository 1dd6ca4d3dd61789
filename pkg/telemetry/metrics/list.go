package metrics

import (
	"time"

	"mercator-hq/yamllist/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for list invocations.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ListMetrics tracks list invocations.
//
// Metrics:
//   - yamllist_list_invocations_total: invocation count by engine and outcome
//   - yamllist_list_errors_total: failed invocations by error kind
//   - yamllist_list_duration_seconds: invocation duration histogram
//   - yamllist_list_input_bytes: document size histogram
type ListMetrics struct {
	invocationsTotal *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	inputBytes       prometheus.Histogram
}

// NewListMetrics creates and registers list metrics with the provided registry.
func NewListMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ListMetrics {
	lm := &ListMetrics{
		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "list",
				Name:      "invocations_total",
				Help:      "Total number of list invocations",
			},
			[]string{"engine", "outcome"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "list",
				Name:      "errors_total",
				Help:      "Total number of failed list invocations by error kind",
			},
			[]string{"kind"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "list",
				Name:      "duration_seconds",
				Help:      "Duration of list invocations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"engine"},
		),

		inputBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "list",
				Name:      "input_bytes",
				Help:      "Size of listed documents in bytes",
				Buckets:   cfg.InputSizeBuckets,
			},
		),
	}

	registry.MustRegister(
		lm.invocationsTotal,
		lm.errorsTotal,
		lm.duration,
		lm.inputBytes,
	)

	return lm
}

// Record records one invocation. kind is the error kind for failures and
// ignored on success.
func (lm *ListMetrics) Record(engine, outcome, kind string, duration time.Duration, inputBytes int) {
	lm.invocationsTotal.WithLabelValues(engine, outcome).Inc()
	lm.duration.WithLabelValues(engine).Observe(duration.Seconds())
	lm.inputBytes.Observe(float64(inputBytes))

	if outcome == OutcomeError {
		if kind == "" {
			kind = "unknown"
		}
		lm.errorsTotal.WithLabelValues(kind).Inc()
	}
}
