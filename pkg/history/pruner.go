package history

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/telemetry/metrics"
)

// Pruner enforces the retention policy on a Storage.
type Pruner struct {
	storage Storage
	config  config.RetentionConfig
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a new retention pruner. collector may be nil.
func NewPruner(storage Storage, cfg config.RetentionConfig, collector *metrics.Collector) *Pruner {
	return &Pruner{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
}

// Prune deletes records older than the retention period, then trims the
// store to MaxRecords. A negative Days disables the age phase and a zero
// MaxRecords disables the count phase. Returns the total number of records
// deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.Days)
		deleted, err := p.storage.DeleteBefore(ctx, cutoff)
		if err != nil {
			p.metrics.RecordHistoryError("prune")
			return total, &RetentionError{Phase: metrics.PruneReasonAge, Cause: err}
		}
		p.metrics.RecordHistoryPruned(metrics.PruneReasonAge, deleted)
		total += deleted

		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.DeleteOldest(ctx, p.config.MaxRecords)
		if err != nil {
			p.metrics.RecordHistoryError("prune")
			return total, &RetentionError{Phase: metrics.PruneReasonCount, Cause: err}
		}
		p.metrics.RecordHistoryPruned(metrics.PruneReasonCount, deleted)
		total += deleted

		p.logger.Debug("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return total, nil
}
