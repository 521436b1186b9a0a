package trace

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer exports spans over OTLP/gRPC.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	log      zerolog.Logger
}

// NewTracer creates a tracer exporting to the given OTLP gRPC endpoint.
// sensitivity is the fraction of traces sampled, in [0, 1].
func NewTracer(
	ctx context.Context,
	log zerolog.Logger,
	serviceName string,
	endpoint string,
	sensitivity float64,
) (*Tracer, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sensitivity))),
	)

	return &Tracer{
		tracer:   provider.Tracer(serviceName),
		provider: provider,
		log:      log.With().Str("component", "tracer").Logger(),
	}, nil
}

// StartSpanFromContext starts a span as a child of the span carried by ctx.
func (t *Tracer) StartSpanFromContext(
	ctx context.Context,
	operationName SpanName,
	opts ...trace.SpanStartOption,
) (
	trace.Span,
	context.Context,
) {
	ctx, span := t.tracer.Start(ctx, string(operationName), opts...)
	return span, ctx
}

// Shutdown flushes any pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	err := t.provider.Shutdown(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("error shutting down tracer")
		return fmt.Errorf("could not shut down tracer provider: %w", err)
	}
	return nil
}

// NoopTracer is the tracer used when tracing is disabled.
type NoopTracer struct {
	tracer trace.Tracer
}

func NewNoopTracer() *NoopTracer {
	return &NoopTracer{
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *NoopTracer) StartSpanFromContext(
	ctx context.Context,
	operationName SpanName,
	opts ...trace.SpanStartOption,
) (
	trace.Span,
	context.Context,
) {
	ctx, span := t.tracer.Start(ctx, string(operationName), opts...)
	return span, ctx
}

func (t *NoopTracer) Shutdown(context.Context) error {
	return nil
}
