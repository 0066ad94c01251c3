package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/spyglass/pkg/spyglass/track"
)

// benchSubject is a minimal trackable object for benchmarks.
type benchSubject struct {
	track.Dirty
	id    string
	state int
}

func (s *benchSubject) SubjectID() string { return s.id }
func (s *benchSubject) Alive() bool       { return true }
func (s *benchSubject) Value() any        { return s.state }

func buildSubjects(n int) []track.Observable {
	out := make([]track.Observable, n)
	for i := range out {
		out[i] = &benchSubject{id: fmt.Sprintf("s-%d", i)}
	}
	return out
}

func sliceUniverse(subjects []track.Observable) track.UniverseFunc {
	return func(context.Context) ([]track.Observable, error) {
		return subjects, nil
	}
}

// BenchmarkTrackerRefresh_Clean measures a refresh cycle where nothing
// changed, the steady-state cost of polling.
func BenchmarkTrackerRefresh_Clean(b *testing.B) {
	subjects := buildSubjects(100)
	tr := track.NewOmniscient(sliceUniverse(subjects))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := tr.Refresh(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTrackerRefresh_AllDirty_100 measures a refresh where every one
// of 100 subjects changed and must be journaled.
func BenchmarkTrackerRefresh_AllDirty_100(b *testing.B) {
	subjects := buildSubjects(100)
	tr := track.NewOmniscient(sliceUniverse(subjects))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, s := range subjects {
			s.(*benchSubject).MarkChanged()
		}
		if err := tr.Refresh(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTrackerRefresh_OneDirty_1000 measures finding one change in a
// large watched set.
func BenchmarkTrackerRefresh_OneDirty_1000(b *testing.B) {
	subjects := buildSubjects(1000)
	tr := track.NewOmniscient(sliceUniverse(subjects))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		subjects[i%1000].(*benchSubject).MarkChanged()
		if err := tr.Refresh(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTrackerWatch measures explicit watch registration.
func BenchmarkTrackerWatch(b *testing.B) {
	subjects := buildSubjects(1000)
	tr := track.New(subjects[0])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Watch(subjects[i%1000])
	}
}
