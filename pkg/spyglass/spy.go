package spyglass

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/spyglass/pkg/spyglass/event"
	"github.com/randalmurphal/spyglass/pkg/spyglass/journal"
	"github.com/randalmurphal/spyglass/pkg/spyglass/observability"
	"github.com/randalmurphal/spyglass/pkg/spyglass/registry"
)

// DefaultRegistry holds every spy created without WithoutRegistry or
// WithRegistry. It exists for introspection and debugging, never for
// dispatch, and grows for the lifetime of the process unless spies are
// closed.
var DefaultRegistry = registry.New[string, *Spy]()

// Spy binds one subject's mutation stream to a destination journal.
//
// The default binding appends a Record to the spy's journal for every
// mutation the subject announces, resolving the changed value at append time
// through the subject's Resolver. Supplying WithListener replaces the
// default journal binding with a custom listener; in that case the spy owns
// no journal.
type Spy struct {
	id      string
	subject Spyable
	journal *journal.Journal[float64, Record]
	clock   Clock

	resolver Resolver
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	registry *registry.Registry[string, *Spy]

	defaultHandle event.Handle
	closed        bool
}

// NewSpy creates a spy bound to subject and subscribes its default listener
// (or the custom listener from WithListener) to the subject's mutation
// stream. Unless opted out, the spy registers itself in the spy registry
// under its ID.
func NewSpy(subject Spyable, opts ...SpyOption) *Spy {
	cfg := defaultSpyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Spy{
		id:       "spy-" + uuid.New().String()[:8],
		subject:  subject,
		clock:    cfg.clock,
		resolver: cfg.resolver,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		registry: cfg.registry,
	}

	if s.resolver == nil {
		if r, ok := subject.(Resolver); ok {
			s.resolver = r
		}
	}

	stream := subject.Mutations()
	if cfg.listener != nil {
		s.defaultHandle = stream.Add(cfg.listener)
	} else {
		s.journal = journal.New[float64, Record]()
		s.defaultHandle = stream.Add(s.record)
	}

	// The spy reports listener failures on the subject's stream so they
	// surface with subject context. The first spy to attach owns the
	// reporting; later spies on the same subject leave it in place.
	if !stream.HasErrorHandler() {
		stream.SetErrorHandler(s.reportListenerError)
	}

	if s.registry != nil {
		s.registry.Register(s.id, s)
	}

	return s
}

// Observe is the conventional setup-phase call for a freshly constructed
// Spyable: it attaches the subject's default spy and returns it. Subjects
// that should not be observed simply never call it.
func Observe(subject Spyable, opts ...SpyOption) *Spy {
	return NewSpy(subject, opts...)
}

// ID returns the spy's registry identifier.
func (s *Spy) ID() string {
	return s.id
}

// Subject returns the observed subject.
func (s *Spy) Subject() Spyable {
	return s.subject
}

// Journal returns the spy's journal, or nil if a custom listener replaced
// the default binding.
func (s *Spy) Journal() *journal.Journal[float64, Record] {
	return s.journal
}

// Add registers an additional listener on the subject's mutation stream.
// The default binding is not disturbed.
func (s *Spy) Add(l event.Listener[Mutation]) event.Handle {
	return s.subject.Mutations().Add(l)
}

// Remove unregisters a listener previously added with Add.
// Removing an unknown handle is a no-op.
func (s *Spy) Remove(h event.Handle) {
	s.subject.Mutations().Remove(h)
}

// Close detaches the spy's default binding from the subject's stream and
// removes the spy from its registry. Additional listeners added with Add are
// not removed. Close is idempotent.
func (s *Spy) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.subject.Mutations().Remove(s.defaultHandle)
	if s.registry != nil {
		s.registry.Unregister(s.id)
	}
}

// record is the default mutation listener: resolve the value now, then
// append it under the current clock key.
func (s *Spy) record(m Mutation) error {
	ctx := context.Background()

	if s.resolver == nil {
		s.metrics.RecordResolveError(ctx, m.Subject.SubjectID(), m.Attribute)
		observability.LogResolveError(s.logger, m.Subject.SubjectID(), m.Attribute, ErrNoResolver)
		return &ResolveError{Subject: m.Subject, Attribute: m.Attribute, Err: ErrNoResolver}
	}

	value, err := s.resolver.Resolve(m.Attribute)
	if err != nil {
		s.metrics.RecordResolveError(ctx, m.Subject.SubjectID(), m.Attribute)
		observability.LogResolveError(s.logger, m.Subject.SubjectID(), m.Attribute, err)
		return &ResolveError{Subject: m.Subject, Attribute: m.Attribute, Err: err}
	}

	key := s.clock()
	s.journal.Append(key, NewRecord(m.Subject, m.Attribute, value))

	s.metrics.RecordAppend(ctx, m.Subject.SubjectID(), m.Attribute)
	observability.LogAppend(s.logger, m.Subject.SubjectID(), m.Attribute, key)
	return nil
}

func (s *Spy) reportListenerError(err error) {
	s.metrics.RecordListenerError(context.Background(), s.subject.SubjectID())
	observability.LogListenerError(s.logger, s.subject.SubjectID(), err)
}
