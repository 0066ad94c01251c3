package track

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/spyglass/pkg/spyglass"
	"github.com/randalmurphal/spyglass/pkg/spyglass/config"
	"github.com/randalmurphal/spyglass/pkg/spyglass/journal"
	"github.com/randalmurphal/spyglass/pkg/spyglass/observability"
)

// trackerConfig holds construction-time configuration for a tracker.
type trackerConfig struct {
	attribute   string
	clock       spyglass.Clock
	journal     *journal.Journal[float64, spyglass.Record]
	prune       bool
	minInterval time.Duration
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
}

func defaultTrackerConfig() trackerConfig {
	return trackerConfig{
		attribute: DefaultAttribute,
		clock:     spyglass.DefaultClock,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// Option configures tracker construction.
type Option func(*trackerConfig)

// WithAttribute sets the attribute name recorded for polled changes.
// Default: DefaultAttribute.
func WithAttribute(name string) Option {
	return func(cfg *trackerConfig) {
		if name != "" {
			cfg.attribute = name
		}
	}
}

// WithClock sets the clock used for journal keys.
// Default: spyglass.DefaultClock.
func WithClock(c spyglass.Clock) Option {
	return func(cfg *trackerConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithJournal makes the tracker append to j instead of a fresh journal.
// Useful for funneling several trackers into one history.
func WithJournal(j *journal.Journal[float64, spyglass.Record]) Option {
	return func(cfg *trackerConfig) {
		cfg.journal = j
	}
}

// WithPruning makes scanner variants drop watched subjects that are absent
// from the universe enumeration. Default: the watched set only grows.
func WithPruning() Option {
	return func(cfg *trackerConfig) {
		cfg.prune = true
	}
}

// WithMinInterval throttles Refresh: a call arriving sooner than d after the
// previous accepted cycle returns immediately without scanning or recording,
// leaving dirty flags set for the next cycle. The interval is measured on the
// tracker's clock. Zero disables throttling.
func WithMinInterval(d time.Duration) Option {
	return func(cfg *trackerConfig) {
		if d > 0 {
			cfg.minInterval = d
		}
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *trackerConfig) {
		cfg.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(cfg *trackerConfig) {
		if m != nil {
			cfg.metrics = m
		}
	}
}

// WithSpanManager sets the tracing span manager. Default: no-op.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(cfg *trackerConfig) {
		if sm != nil {
			cfg.spans = sm
		}
	}
}

// OptionsFromConfig derives tracker options from configuration.
//
// Recognized keys:
//   - tracker.attribute (string): attribute name for polled changes.
//   - tracker.prune_vanished (bool): true enables WithPruning.
//   - tracker.min_interval (duration): enables WithMinInterval.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if attr := cfg.String("tracker.attribute", ""); attr != "" {
		opts = append(opts, WithAttribute(attr))
	}
	if cfg.Bool("tracker.prune_vanished", false) {
		opts = append(opts, WithPruning())
	}
	if d := cfg.Duration("tracker.min_interval", 0); d > 0 {
		opts = append(opts, WithMinInterval(d))
	}
	return opts
}
