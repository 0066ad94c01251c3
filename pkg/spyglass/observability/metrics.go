package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records spyglass metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordAppend records a change record appended to a journal.
	RecordAppend(ctx context.Context, subjectID, attribute string)

	// RecordResolveError records a failed attribute resolution.
	RecordResolveError(ctx context.Context, subjectID, attribute string)

	// RecordListenerError records a listener failure during dispatch.
	RecordListenerError(ctx context.Context, subjectID string)

	// RecordRefresh records a tracker refresh cycle with its duration,
	// record count, and watched-set size.
	RecordRefresh(ctx context.Context, kind string, records, watched int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	appends        metric.Int64Counter
	resolveErrors  metric.Int64Counter
	listenerErrors metric.Int64Counter
	refreshes      metric.Int64Counter
	refreshRecords metric.Int64Counter
	refreshLatency metric.Float64Histogram
	watchedSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("spyglass")

	appends, err := meter.Int64Counter("spyglass.journal.appends",
		metric.WithDescription("Number of change records appended"),
	)
	if err != nil {
		return nil, err
	}

	resolveErrors, err := meter.Int64Counter("spyglass.spy.resolve_errors",
		metric.WithDescription("Number of failed attribute resolutions"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("spyglass.stream.listener_errors",
		metric.WithDescription("Number of listener failures during dispatch"),
	)
	if err != nil {
		return nil, err
	}

	refreshes, err := meter.Int64Counter("spyglass.tracker.refreshes",
		metric.WithDescription("Number of tracker refresh cycles"),
	)
	if err != nil {
		return nil, err
	}

	refreshRecords, err := meter.Int64Counter("spyglass.tracker.records",
		metric.WithDescription("Number of change records produced by refresh cycles"),
	)
	if err != nil {
		return nil, err
	}

	refreshLatency, err := meter.Float64Histogram("spyglass.tracker.refresh_latency_ms",
		metric.WithDescription("Tracker refresh latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	watchedSize, err := meter.Int64Histogram("spyglass.tracker.watched",
		metric.WithDescription("Watched-set size observed at refresh time"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		appends:        appends,
		resolveErrors:  resolveErrors,
		listenerErrors: listenerErrors,
		refreshes:      refreshes,
		refreshRecords: refreshRecords,
		refreshLatency: refreshLatency,
		watchedSize:    watchedSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordAppend records an appended change record.
func (m *otelMetrics) RecordAppend(ctx context.Context, subjectID, attribute string) {
	m.appends.Add(ctx, 1, metric.WithAttributes(
		subjectAttrs(subjectID, attribute)...,
	))
}

// RecordResolveError records a failed attribute resolution.
func (m *otelMetrics) RecordResolveError(ctx context.Context, subjectID, attribute string) {
	m.resolveErrors.Add(ctx, 1, metric.WithAttributes(
		subjectAttrs(subjectID, attribute)...,
	))
}

// RecordListenerError records a listener failure.
func (m *otelMetrics) RecordListenerError(ctx context.Context, subjectID string) {
	m.listenerErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject_id", subjectID),
	))
}

// RecordRefresh records a tracker refresh cycle.
func (m *otelMetrics) RecordRefresh(ctx context.Context, kind string, records, watched int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("tracker", kind),
	}
	m.refreshes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.refreshRecords.Add(ctx, int64(records), metric.WithAttributes(attrs...))
	m.refreshLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.watchedSize.Record(ctx, int64(watched), metric.WithAttributes(attrs...))
}

func subjectAttrs(subjectID, attr string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("subject_id", subjectID),
		attribute.String("attribute", attr),
	}
}
