package spyglass

import (
	"log/slog"

	"github.com/randalmurphal/spyglass/pkg/spyglass/config"
	"github.com/randalmurphal/spyglass/pkg/spyglass/event"
	"github.com/randalmurphal/spyglass/pkg/spyglass/observability"
	"github.com/randalmurphal/spyglass/pkg/spyglass/registry"
)

// spyConfig holds construction-time configuration for a spy.
type spyConfig struct {
	clock    Clock
	resolver Resolver
	listener event.Listener[Mutation]
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	registry *registry.Registry[string, *Spy]
}

func defaultSpyConfig() spyConfig {
	return spyConfig{
		clock:    DefaultClock,
		metrics:  observability.NoopMetrics{},
		registry: DefaultRegistry,
	}
}

// SpyOption configures spy construction.
type SpyOption func(*spyConfig)

// WithClock sets the clock used for journal keys.
// Default: DefaultClock.
func WithClock(c Clock) SpyOption {
	return func(cfg *spyConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithResolver sets the value resolver, overriding the subject's own
// Resolver implementation if it has one.
func WithResolver(r Resolver) SpyOption {
	return func(cfg *spyConfig) {
		cfg.resolver = r
	}
}

// WithListener replaces the default journal binding with a custom listener.
// A spy constructed this way owns no journal.
func WithListener(l event.Listener[Mutation]) SpyOption {
	return func(cfg *spyConfig) {
		cfg.listener = l
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) SpyOption {
	return func(cfg *spyConfig) {
		cfg.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) SpyOption {
	return func(cfg *spyConfig) {
		if m != nil {
			cfg.metrics = m
		}
	}
}

// WithRegistry registers the spy in r instead of DefaultRegistry.
// Useful for tests that need an isolated registry.
func WithRegistry(r *registry.Registry[string, *Spy]) SpyOption {
	return func(cfg *spyConfig) {
		cfg.registry = r
	}
}

// WithoutRegistry opts the spy out of registration entirely.
func WithoutRegistry() SpyOption {
	return func(cfg *spyConfig) {
		cfg.registry = nil
	}
}

// SpyOptionsFromConfig derives spy options from configuration.
//
// Recognized keys:
//   - spy.registry (bool): false opts spies out of the process registry.
func SpyOptionsFromConfig(cfg config.Config) []SpyOption {
	var opts []SpyOption
	if cfg.Has("spy.registry") && !cfg.Bool("spy.registry", true) {
		opts = append(opts, WithoutRegistry())
	}
	return opts
}
