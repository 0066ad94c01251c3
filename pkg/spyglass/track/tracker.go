package track

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/randalmurphal/spyglass/pkg/spyglass"
	"github.com/randalmurphal/spyglass/pkg/spyglass/journal"
	"github.com/randalmurphal/spyglass/pkg/spyglass/observability"
)

// Tracker kind labels, used in logs, metrics, and spans.
const (
	KindSingle     = "single"
	KindFiltered   = "filtered"
	KindOmniscient = "omniscient"
)

// DefaultAttribute is the attribute name recorded for polled state changes.
const DefaultAttribute = "state"

// Tracker maintains a watched set of subjects and, on each Refresh, journals
// a change record for every watched subject whose dirty flag is set.
type Tracker struct {
	kind      string
	attribute string
	journal   *journal.Journal[float64, spyglass.Record]
	clock     spyglass.Clock

	watched  map[string]Observable
	universe Universe
	filter   Predicate
	prune    bool

	minInterval  float64 // seconds on the tracker's clock, 0 = no throttle
	lastAccepted float64
	refreshed    bool

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a single-subject tracker. The watched subject is fixed at
// construction and never rescanned.
func New(subject Observable, opts ...Option) *Tracker {
	t := newTracker(KindSingle, nil, nil, opts)
	t.watched[subject.SubjectID()] = subject
	return t
}

// NewScanner creates a tracker that rescans universe every cycle and watches
// the subjects filter accepts. A nil filter accepts everything.
func NewScanner(universe Universe, filter Predicate, opts ...Option) *Tracker {
	return newTracker(KindFiltered, universe, filter, opts)
}

// NewOmniscient creates a tracker that watches every live subject in
// universe, rescanning every cycle.
func NewOmniscient(universe Universe, opts ...Option) *Tracker {
	return newTracker(KindOmniscient, universe, nil, opts)
}

func newTracker(kind string, universe Universe, filter Predicate, opts []Option) *Tracker {
	cfg := defaultTrackerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	j := cfg.journal
	if j == nil {
		j = journal.New[float64, spyglass.Record]()
	}

	return &Tracker{
		kind:        kind,
		attribute:   cfg.attribute,
		journal:     j,
		clock:       cfg.clock,
		watched:     make(map[string]Observable),
		universe:    universe,
		filter:      filter,
		prune:       cfg.prune,
		minInterval: cfg.minInterval.Seconds(),
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		spans:       cfg.spans,
	}
}

// Kind returns the tracker's variant label.
func (t *Tracker) Kind() string {
	return t.kind
}

// Journal returns the tracker's journal.
func (t *Tracker) Journal() *journal.Journal[float64, spyglass.Record] {
	return t.journal
}

// Watch adds subject to the watched set and reports whether it was added.
// Adding a subject already watched (same SubjectID) is a no-op.
func (t *Tracker) Watch(subject Observable) bool {
	id := subject.SubjectID()
	if _, ok := t.watched[id]; ok {
		return false
	}
	t.watched[id] = subject
	return true
}

// Unwatch removes subject from the watched set and reports whether it was
// present.
func (t *Tracker) Unwatch(subject Observable) bool {
	id := subject.SubjectID()
	_, ok := t.watched[id]
	delete(t.watched, id)
	return ok
}

// Watching reports whether subject is in the watched set.
func (t *Tracker) Watching(subject Observable) bool {
	_, ok := t.watched[subject.SubjectID()]
	return ok
}

// Size returns the watched-set size.
func (t *Tracker) Size() int {
	return len(t.watched)
}

// Refresh runs one detection cycle: rescan the universe (scanner variants),
// then journal a record for every watched subject whose dirty flag is set
// and clear the flag.
//
// Subjects that report dead are dropped from the watched set and skipped
// without producing a record. The only errors Refresh returns are universe
// enumeration failures and context cancellation; a cycle that starts its
// diff pass always completes it.
//
// With WithMinInterval set, a call arriving too soon after the previous
// accepted cycle returns nil without scanning or recording; dirty flags stay
// set for the next cycle.
func (t *Tracker) Refresh(ctx context.Context) error {
	if t.minInterval > 0 {
		now := t.clock()
		if t.refreshed && now-t.lastAccepted < t.minInterval {
			return nil
		}
		t.lastAccepted = now
		t.refreshed = true
	}

	elapsed := observability.TimedOperation()
	ctx, span := t.spans.StartRefreshSpan(ctx, t.kind)
	var refreshErr error
	defer func() { t.spans.EndSpanWithError(span, refreshErr) }()

	if t.universe != nil {
		if err := t.scan(ctx); err != nil {
			refreshErr = err
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		refreshErr = err
		return err
	}

	records := 0
	for _, id := range t.sortedIDs() {
		subject := t.watched[id]
		if !subject.Alive() {
			delete(t.watched, id)
			observability.LogSubjectGone(t.logger, t.kind, id)
			continue
		}
		if !subject.Changed() {
			continue
		}

		key := t.clock()
		t.journal.Append(key, spyglass.NewRecord(subject, t.attribute, subject.Value()))
		subject.ClearChanged()
		records++

		t.metrics.RecordAppend(ctx, id, t.attribute)
		observability.LogAppend(t.logger, id, t.attribute, key)
	}

	ms := elapsed()
	t.metrics.RecordRefresh(ctx, t.kind, records, len(t.watched),
		time.Duration(ms*float64(time.Millisecond)))
	observability.LogRefreshComplete(t.logger, t.kind, records, len(t.watched), ms)
	return nil
}

// scan enumerates the universe and adds newcomers the filter accepts.
// With pruning enabled, watched subjects absent from this enumeration are
// dropped.
func (t *Tracker) scan(ctx context.Context) error {
	ctx, span := t.spans.StartScanSpan(ctx, t.kind)

	subjects, err := t.universe.Subjects(ctx)
	if err != nil {
		wrapped := fmt.Errorf("enumerate universe: %w", err)
		t.spans.EndSpanWithError(span, wrapped)
		return wrapped
	}

	seen := make(map[string]struct{}, len(subjects))
	added := 0
	for _, subject := range subjects {
		if subject == nil {
			continue
		}
		if t.filter != nil && !t.filter(subject) {
			continue
		}
		id := subject.SubjectID()
		seen[id] = struct{}{}
		if _, ok := t.watched[id]; !ok {
			t.watched[id] = subject
			added++
		}
	}

	pruned := 0
	if t.prune {
		for id := range t.watched {
			if _, ok := seen[id]; !ok {
				delete(t.watched, id)
				pruned++
			}
		}
	}

	observability.LogScan(t.logger, t.kind, len(subjects), added, pruned)
	t.spans.EndSpanWithError(span, nil)
	return nil
}

// sortedIDs returns the watched SubjectIDs in ascending order so that diff
// passes are deterministic.
func (t *Tracker) sortedIDs() []string {
	ids := make([]string, 0, len(t.watched))
	for id := range t.watched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
