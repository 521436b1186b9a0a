package module

import (
	"context"

	otelTrace "go.opentelemetry.io/otel/trace"

	"github.com/droplets-system/epoch/module/trace"
)

var (
	_ Tracer = &trace.Tracer{}
	_ Tracer = &trace.NoopTracer{}
)

// Tracer creates spans for protocol actions.
type Tracer interface {
	// StartSpanFromContext starts a span as a child of the span in ctx, if
	// any, and returns the context carrying the new span.
	StartSpanFromContext(
		ctx context.Context,
		operationName trace.SpanName,
		opts ...otelTrace.SpanStartOption,
	) (
		otelTrace.Span,
		context.Context,
	)

	// Shutdown flushes pending spans and stops the tracer.
	Shutdown(ctx context.Context) error
}
