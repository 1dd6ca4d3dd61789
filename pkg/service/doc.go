// Package service wraps the list operation for hosts such as the CLI and
// the HTTP server.
//
// Every call to List runs inside a "list" span, is counted in the list
// metrics, is logged with the request ID, source and engine taken from the
// context, and is written to invocation history when that is enabled:
//
//	svc, err := service.New(cfg, service.Deps{
//	    Metrics: collector,
//	    Tracer:  tracer,
//	    History: store,
//	})
//	res, err := svc.List(ctx, service.Request{Document: doc, Source: "doc.yaml"})
//
// Engine errors are returned unchanged so callers can inspect them with
// errors.Is and the ylist errors package.
package service
