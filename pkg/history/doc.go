// Package history records list invocations and enforces their retention.
//
// # Backends
//
//   - memory: process-local, used by default and in tests
//   - sqlite: a SQLite file, through either the pure Go modernc.org/sqlite
//     driver ("sqlite") or the cgo github.com/mattn/go-sqlite3 driver
//     ("sqlite3")
//
// # Retention
//
// A Pruner deletes records older than retention.days and then trims the
// store to retention.max_records. A Scheduler runs the pruner on a cron
// schedule:
//
//	pruner := history.NewPruner(store, cfg.History.Retention, collector)
//	scheduler := history.NewScheduler(pruner, cfg.History.Retention.Schedule)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// # Querying
//
//	records, err := store.Query(ctx, history.Query{
//	    Outcome: history.OutcomeError,
//	    Since:   time.Now().Add(-24 * time.Hour),
//	    Limit:   20,
//	})
//
// Results are ordered newest first.
package history
