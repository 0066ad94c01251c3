package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordAppend does nothing.
func (NoopMetrics) RecordAppend(_ context.Context, _, _ string) {}

// RecordResolveError does nothing.
func (NoopMetrics) RecordResolveError(_ context.Context, _, _ string) {}

// RecordListenerError does nothing.
func (NoopMetrics) RecordListenerError(_ context.Context, _ string) {}

// RecordRefresh does nothing.
func (NoopMetrics) RecordRefresh(_ context.Context, _ string, _, _ int, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartRefreshSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRefreshSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartScanSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartScanSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
