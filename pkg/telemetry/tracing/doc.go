// Package tracing provides OpenTelemetry distributed tracing for yamllist.
//
// # Overview
//
// Each list invocation runs inside a "list" span carrying the engine name,
// document source and size. Failed invocations record the error kind, type
// and location as span attributes. Spans are exported over OTLP gRPC.
//
// # Trace Context Propagation
//
// The HTTP server extracts W3C Trace Context (traceparent, tracestate) from
// incoming requests with HTTPMiddleware, so spans join the caller's trace.
//
// # Sampling
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//	    endpoint: localhost:4317
//
// Samplers are wrapped in ParentBased so the caller's decision wins.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "list")
//	defer span.End()
//
// When tracing is disabled New returns a noop tracer.
package tracing
