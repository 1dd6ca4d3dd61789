package tracing

import (
	ylerrors "mercator-hq/yamllist/pkg/ylist/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys. Custom keys use the "yamllist.*" namespace.
const (
	AttrRequestID  = "yamllist.request_id"
	AttrSource     = "yamllist.source"
	AttrEngine     = "yamllist.engine"
	AttrInputBytes = "yamllist.input_bytes"
	AttrItems      = "yamllist.items"

	AttrErrorKind   = "yamllist.error.kind"
	AttrErrorType   = "yamllist.error.type"
	AttrErrorLine   = "yamllist.error.line"
	AttrErrorColumn = "yamllist.error.column"
)

// SetListAttributes sets the attributes describing a list invocation.
func SetListAttributes(span trace.Span, engine, source string, inputBytes int) {
	span.SetAttributes(
		attribute.String(AttrEngine, engine),
		attribute.String(AttrSource, source),
		attribute.Int(AttrInputBytes, inputBytes),
	)
}

// SetListResult records the number of rendered items.
func SetListResult(span trace.Span, items int) {
	span.SetAttributes(attribute.Int(AttrItems, items))
}

// SetListError marks the span as failed. Engine errors also contribute their
// kind, type and location.
func SetListError(span trace.Span, err error) {
	if err == nil {
		return
	}
	if e, ok := ylerrors.As(err); ok {
		span.SetAttributes(
			attribute.String(AttrErrorKind, string(e.Kind)),
			attribute.String(AttrErrorType, string(e.Type)),
		)
		if e.Location.IsValid() {
			span.SetAttributes(
				attribute.Int(AttrErrorLine, e.Location.Line),
				attribute.Int(AttrErrorColumn, e.Location.Column),
			)
		}
	}
	SetStatus(span, err)
}
