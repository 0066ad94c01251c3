// Package observability provides structured logging, metrics, and tracing
// for spyglass.
//
// Logging uses slog from the standard library; metrics and tracing use
// OpenTelemetry. Everything is opt-in and has a no-op implementation, so the
// hot append and dispatch paths pay nothing when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogAppend logs a record appended to a journal.
func LogAppend(logger *slog.Logger, subjectID, attribute string, key float64) {
	if logger == nil {
		return
	}
	logger.Debug("record appended",
		slog.String("subject_id", subjectID),
		slog.String("attribute", attribute),
		slog.Float64("key", key),
	)
}

// LogResolveError logs a failed attribute resolution.
func LogResolveError(logger *slog.Logger, subjectID, attribute string, err error) {
	if logger == nil {
		return
	}
	logger.Error("attribute resolution failed",
		slog.String("subject_id", subjectID),
		slog.String("attribute", attribute),
		slog.String("error", err.Error()),
	)
}

// LogListenerError logs a listener failure during dispatch.
func LogListenerError(logger *slog.Logger, subjectID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("listener failed",
		slog.String("subject_id", subjectID),
		slog.String("error", err.Error()),
	)
}

// LogRefreshComplete logs a completed tracker refresh cycle.
func LogRefreshComplete(logger *slog.Logger, kind string, records, watched int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("refresh completed",
		slog.String("tracker", kind),
		slog.Int("records", records),
		slog.Int("watched", watched),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSubjectGone logs a watched subject dropped because it is no longer alive.
func LogSubjectGone(logger *slog.Logger, kind, subjectID string) {
	if logger == nil {
		return
	}
	logger.Warn("watched subject no longer alive, dropping",
		slog.String("tracker", kind),
		slog.String("subject_id", subjectID),
	)
}

// LogScan logs a universe rescan.
func LogScan(logger *slog.Logger, kind string, enumerated, added, pruned int) {
	if logger == nil {
		return
	}
	logger.Debug("universe scanned",
		slog.String("tracker", kind),
		slog.Int("enumerated", enumerated),
		slog.Int("added", added),
		slog.Int("pruned", pruned),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
