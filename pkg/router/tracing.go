package router

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	spanMount     = "vroute.mount"
	spanNavigate  = "vroute.navigation"
	spanReconcile = "vroute.reconcile_basename"
	spanResolve   = "vroute.resolve"
)

// Attribute keys.
const (
	attrPath     = attribute.Key("vroute.path")
	attrQuery    = attribute.Key("vroute.query")
	attrRevision = attribute.Key("vroute.revision")
	attrBasename = attribute.Key("vroute.basename")
	attrPattern  = attribute.Key("vroute.pattern")
	attrMatched  = attribute.Key("vroute.matched")
	attrReplaced = attribute.Key("vroute.replaced")
)

func (r *Router) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := r.opts.tracer.Start(context.Background(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return span
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
