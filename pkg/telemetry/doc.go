// Package telemetry groups the observability packages used by yamllist.
//
// # Components
//
//   - logging: structured slog logging with request-scoped context fields
//   - metrics: Prometheus metrics for list invocations and history storage
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, _ := logging.New(logging.Config{Level: "info", Format: "json"})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
package telemetry
