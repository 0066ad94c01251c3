package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the spyglass tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("spyglass")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRefreshSpan starts a span for a tracker refresh cycle.
	// Returns the context with span and the span itself.
	StartRefreshSpan(ctx context.Context, kind string) (context.Context, trace.Span)

	// StartScanSpan starts a span for a universe rescan.
	// The scan span should be a child of the refresh span.
	StartScanSpan(ctx context.Context, kind string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRefreshSpan starts a span for a tracker refresh cycle.
func (m *otelSpanManager) StartRefreshSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "spyglass.refresh",
		trace.WithAttributes(
			attribute.String("tracker", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartScanSpan starts a span for a universe rescan.
func (m *otelSpanManager) StartScanSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "spyglass.scan",
		trace.WithAttributes(
			attribute.String("tracker", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

