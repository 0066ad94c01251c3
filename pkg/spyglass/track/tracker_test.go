package track_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/randalmurphal/spyglass/pkg/spyglass"
	"github.com/randalmurphal/spyglass/pkg/spyglass/config"
	"github.com/randalmurphal/spyglass/pkg/spyglass/journal"
	"github.com/randalmurphal/spyglass/pkg/spyglass/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSubject is a minimal Observable backed by the embeddable dirty flag.
type testSubject struct {
	track.Dirty
	id    string
	alive bool
	state any
}

func newTestSubject(id string) *testSubject {
	return &testSubject{id: id, alive: true}
}

func (s *testSubject) SubjectID() string { return s.id }
func (s *testSubject) Alive() bool       { return s.alive }
func (s *testSubject) Value() any        { return s.state }

func (s *testSubject) set(v any) {
	s.state = v
	s.MarkChanged()
}

// stepClock yields 0.1, 0.2, 0.3, ... on successive calls.
func stepClock() spyglass.Clock {
	n := 0
	return func() float64 {
		n++
		return float64(n) / 10
	}
}

func sliceUniverse(subjects *[]track.Observable) track.Universe {
	return track.UniverseFunc(func(context.Context) ([]track.Observable, error) {
		return *subjects, nil
	})
}

func TestTracker_SingleSubjectOneChangeOneRecord(t *testing.T) {
	ball := newTestSubject("ball-1")
	tr := track.New(ball, track.WithClock(stepClock()))

	ball.set(3.5)

	require.NoError(t, tr.Refresh(context.Background()))

	j := tr.Journal()
	require.Equal(t, 1, j.Len())
	got := j.Get(0.1)
	require.Len(t, got, 1)
	assert.Equal(t, "ball-1", got[0].Subject.SubjectID())
	assert.Equal(t, track.DefaultAttribute, got[0].Attribute)
	assert.Equal(t, 3.5, got[0].Value)

	assert.False(t, ball.Changed(), "flag must be cleared after recording")

	// A quiet cycle produces nothing.
	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, 1, j.Len())
}

func TestTracker_OnlyDirtySubjectsRecorded(t *testing.T) {
	p := newTestSubject("p")
	q := newTestSubject("q")

	tr := track.New(p, track.WithClock(stepClock()))
	require.True(t, tr.Watch(q))

	p.set("moved")

	require.NoError(t, tr.Refresh(context.Background()))

	j := tr.Journal()
	require.Equal(t, 1, j.Len())
	assert.Equal(t, "p", j.Entries()[0].Value.Subject.SubjectID())
	assert.False(t, p.Changed())
	assert.False(t, q.Changed(), "an untouched subject's flag stays unset")
}

func TestTracker_WatchDeduplicatesByID(t *testing.T) {
	p := newTestSubject("p")
	tr := track.New(p)

	assert.False(t, tr.Watch(p), "re-adding the watched subject is a no-op")
	assert.Equal(t, 1, tr.Size())

	q := newTestSubject("q")
	assert.True(t, tr.Watch(q))
	assert.False(t, tr.Watch(q))
	assert.Equal(t, 2, tr.Size())

	assert.True(t, tr.Unwatch(q))
	assert.False(t, tr.Unwatch(q), "second removal reports absence")
	assert.False(t, tr.Watching(q))
}

func TestTracker_DeadSubjectDroppedWithoutRecord(t *testing.T) {
	p := newTestSubject("p")
	q := newTestSubject("q")

	tr := track.New(p, track.WithClock(stepClock()))
	tr.Watch(q)

	p.set(1)
	q.set(2)
	q.alive = false

	require.NoError(t, tr.Refresh(context.Background()))

	j := tr.Journal()
	require.Equal(t, 1, j.Len())
	assert.Equal(t, "p", j.Entries()[0].Value.Subject.SubjectID())
	assert.False(t, tr.Watching(q), "dead subject is removed from the watched set")
}

func TestTracker_OmniscientWatchesUniverse(t *testing.T) {
	a := newTestSubject("a")
	b := newTestSubject("b")
	subjects := []track.Observable{a, b}

	tr := track.NewOmniscient(sliceUniverse(&subjects), track.WithClock(stepClock()))

	require.NoError(t, tr.Refresh(context.Background()))
	assert.True(t, tr.Watching(a))
	assert.True(t, tr.Watching(b))
	assert.Equal(t, track.KindOmniscient, tr.Kind())

	// Newcomers are picked up next cycle; departures stay watched.
	c := newTestSubject("c")
	subjects = []track.Observable{b, c}

	require.NoError(t, tr.Refresh(context.Background()))
	assert.True(t, tr.Watching(a), "watched set is a monotonic superset without pruning")
	assert.True(t, tr.Watching(c))
	assert.Equal(t, 3, tr.Size())
}

func TestTracker_ScannerAppliesPredicate(t *testing.T) {
	a := newTestSubject("tagged-a")
	b := newTestSubject("plain-b")
	subjects := []track.Observable{a, b}

	tagged := func(s track.Observable) bool {
		return len(s.SubjectID()) >= 6 && s.SubjectID()[:6] == "tagged"
	}
	tr := track.NewScanner(sliceUniverse(&subjects), tagged)

	require.NoError(t, tr.Refresh(context.Background()))

	assert.True(t, tr.Watching(a))
	assert.False(t, tr.Watching(b))
	assert.Equal(t, track.KindFiltered, tr.Kind())
}

func TestTracker_PruningDropsVanishedSubjects(t *testing.T) {
	a := newTestSubject("a")
	b := newTestSubject("b")
	subjects := []track.Observable{a, b}

	tr := track.NewOmniscient(sliceUniverse(&subjects), track.WithPruning())

	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, 2, tr.Size())

	subjects = []track.Observable{b}
	require.NoError(t, tr.Refresh(context.Background()))

	assert.False(t, tr.Watching(a))
	assert.True(t, tr.Watching(b))
}

func TestTracker_UniverseErrorPropagates(t *testing.T) {
	boom := errors.New("scene unavailable")
	universe := track.UniverseFunc(func(context.Context) ([]track.Observable, error) {
		return nil, boom
	})

	tr := track.NewOmniscient(universe)
	err := tr.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTracker_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := track.New(newTestSubject("p"))
	err := tr.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTracker_SharedJournal(t *testing.T) {
	shared := journal.New[float64, spyglass.Record]()

	p := newTestSubject("p")
	q := newTestSubject("q")
	clock := stepClock()
	trP := track.New(p, track.WithJournal(shared), track.WithClock(clock))
	trQ := track.New(q, track.WithJournal(shared), track.WithClock(clock))

	p.set(1)
	q.set(2)

	require.NoError(t, trP.Refresh(context.Background()))
	require.NoError(t, trQ.Refresh(context.Background()))

	assert.Equal(t, 2, shared.Len())
	assert.Same(t, shared, trP.Journal())
	assert.Same(t, shared, trQ.Journal())
}

func TestTracker_RecordsOrderedByClock(t *testing.T) {
	p := newTestSubject("p")
	tr := track.New(p, track.WithClock(stepClock()), track.WithAttribute("transform"))

	for i := 0; i < 3; i++ {
		p.set(i)
		require.NoError(t, tr.Refresh(context.Background()))
	}

	j := tr.Journal()
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, j.Keys())

	entries := j.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, "transform", e.Value.Attribute)
		assert.Equal(t, i, e.Value.Value)
	}
}

func TestTracker_MinIntervalThrottlesRefresh(t *testing.T) {
	p := newTestSubject("p")
	tr := track.New(p,
		track.WithClock(stepClock()),
		track.WithMinInterval(250*time.Millisecond))

	p.set(1)
	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, []float64{0.2}, tr.Journal().Keys())

	// Only 0.2s of clock time has passed since the accepted cycle, so this
	// call is skipped outright.
	p.set(2)
	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, []float64{0.2}, tr.Journal().Keys())
	assert.True(t, p.Changed(), "skipped cycle leaves the flag set")

	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, []float64{0.2, 0.5}, tr.Journal().Keys())
	assert.False(t, p.Changed())
}

func TestOptionsFromConfig_MinInterval(t *testing.T) {
	cfg := config.New(map[string]any{"tracker.min_interval": "300ms"})

	p := newTestSubject("p")
	tr := track.New(p,
		append(track.OptionsFromConfig(cfg), track.WithClock(stepClock()))...)

	p.set(1)
	require.NoError(t, tr.Refresh(context.Background()))
	p.set(2)
	require.NoError(t, tr.Refresh(context.Background()))

	assert.Equal(t, 1, tr.Journal().Len(), "second cycle arrives inside the interval")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.New(map[string]any{
		"tracker.attribute":      "pos",
		"tracker.prune_vanished": true,
	})

	a := newTestSubject("a")
	subjects := []track.Observable{a}
	tr := track.NewOmniscient(sliceUniverse(&subjects),
		append(track.OptionsFromConfig(cfg), track.WithClock(stepClock()))...)

	a.set(1)
	require.NoError(t, tr.Refresh(context.Background()))

	entries := tr.Journal().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "pos", entries[0].Value.Attribute)

	subjects = nil
	require.NoError(t, tr.Refresh(context.Background()))
	assert.Equal(t, 0, tr.Size(), "prune_vanished drops departed subjects")
}
