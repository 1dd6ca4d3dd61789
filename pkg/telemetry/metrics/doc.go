// Package metrics provides Prometheus metrics collection for yamllist.
//
// # Metrics Categories
//
//   - List Metrics: invocation count, failures by error kind, duration and
//     document size
//   - History Metrics: stored, pruned and failed history operations
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordList(
//		"native",               // engine
//		metrics.OutcomeError,   // outcome
//		"DuplicateKey",         // error kind
//		120*time.Microsecond,   // duration
//		512,                    // input bytes
//	)
//
//	http.Handle("/metrics", collector.Handler())
//
// Every collector owns its registry, so tests can create as many as they
// need without clashing on the global default registry.
package metrics
