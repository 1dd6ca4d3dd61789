package metrics

import (
	"mercator-hq/yamllist/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Prune reasons.
const (
	PruneReasonAge   = "age"
	PruneReasonCount = "count"
)

// HistoryMetrics tracks the invocation history store.
//
// Metrics:
//   - yamllist_history_records_stored_total: records written by backend
//   - yamllist_history_records_pruned_total: records removed by retention reason
//   - yamllist_history_errors_total: failed storage operations
type HistoryMetrics struct {
	storedTotal *prometheus.CounterVec
	prunedTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		storedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "records_stored_total",
				Help:      "Total number of invocation records stored",
			},
			[]string{"backend"},
		),
		prunedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "records_pruned_total",
				Help:      "Total number of invocation records removed by retention",
			},
			[]string{"reason"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "history",
				Name:      "errors_total",
				Help:      "Total number of failed history storage operations",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(hm.storedTotal, hm.prunedTotal, hm.errorsTotal)

	return hm
}

// RecordStored counts a stored record.
func (hm *HistoryMetrics) RecordStored(backend string) {
	hm.storedTotal.WithLabelValues(backend).Inc()
}

// RecordPruned counts n records removed for the given reason.
func (hm *HistoryMetrics) RecordPruned(reason string, n int64) {
	if n > 0 {
		hm.prunedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordError counts a failed storage operation.
func (hm *HistoryMetrics) RecordError(operation string) {
	hm.errorsTotal.WithLabelValues(operation).Inc()
}
