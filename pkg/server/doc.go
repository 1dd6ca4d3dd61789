// Package server exposes the list service over HTTP.
//
// # Routes
//
//   - POST /v1/list: render a document. The body is the raw document, or a
//     JSON object {"document": "...", "source": "..."} when the content type
//     is application/json. Engine errors return 422 with the error kind and
//     location; oversized documents return 413.
//   - GET /v1/history: recorded invocations, filtered by the since, until,
//     outcome, source, limit and offset query parameters.
//   - GET /health, GET /ready: liveness and readiness checks.
//   - GET /version: build information.
//   - GET /metrics: Prometheus metrics, when a collector is configured.
//
// # Middleware
//
// Requests pass through recovery, request ID assignment, trace context
// extraction and request logging, in that order.
//
// # Usage
//
//	srv := server.NewServer(&cfg.Server, svc, server.Options{
//	    Metrics: collector,
//	    Health:  checker,
//	    Version: version,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
package server
