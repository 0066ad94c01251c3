package track

import (
	"context"

	"github.com/randalmurphal/spyglass/pkg/spyglass"
)

// Observable is the capability a subject implements to be tracked. The dirty
// flag is owned by the subject and polled by the tracker, never pushed.
type Observable interface {
	spyglass.Subject

	// Alive reports whether the subject is still valid. Dead subjects are
	// dropped from the watched set at refresh time without producing a
	// record.
	Alive() bool

	// Changed reports whether the observable state mutated since the flag
	// was last cleared.
	Changed() bool

	// ClearChanged resets the dirty flag. Called by the tracker after it
	// records a change.
	ClearChanged()

	// Value returns the current observable state, recorded as the change
	// record's value.
	Value() any
}

// Dirty is an embeddable dirty flag for Observable implementations.
// Call MarkChanged from state setters.
type Dirty struct {
	changed bool
}

// MarkChanged sets the flag.
func (d *Dirty) MarkChanged() {
	d.changed = true
}

// Changed reports the flag.
func (d *Dirty) Changed() bool {
	return d.changed
}

// ClearChanged resets the flag.
func (d *Dirty) ClearChanged() {
	d.changed = false
}

// Universe enumerates the live subjects a scanner may watch. It is called
// once per refresh cycle; enumeration cost is the host's concern.
type Universe interface {
	Subjects(ctx context.Context) ([]Observable, error)
}

// UniverseFunc adapts a function to the Universe interface.
type UniverseFunc func(ctx context.Context) ([]Observable, error)

// Subjects implements Universe.
func (f UniverseFunc) Subjects(ctx context.Context) ([]Observable, error) {
	return f(ctx)
}

// Predicate filters universe subjects during a scan. A nil predicate
// accepts everything.
type Predicate func(Observable) bool
