package spyglass

import "time"

// Subject identifies an observable entity. Two subjects are the same entity
// exactly when their SubjectIDs are equal; IDs must be stable for the
// subject's lifetime.
type Subject interface {
	SubjectID() string
}

// Resolver reads the current value of a named attribute off a subject.
// Spies resolve values lazily at append time, so an attribute only needs to
// be resolvable when a mutation for it is logged, not when it is announced.
//
// Resolve must return an error for unknown attributes rather than a zero
// value; spyglass never logs a record for a failed resolution.
type Resolver interface {
	Resolve(attribute string) (any, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(attribute string) (any, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(attribute string) (any, error) {
	return f(attribute)
}

// Clock supplies the journal key for new records. Within one goroutine the
// returned values must be non-decreasing, or journal ordering stops being
// meaningful.
type Clock func() float64

var processStart = time.Now()

// DefaultClock returns seconds elapsed since process start.
// It is monotonically non-decreasing.
func DefaultClock() float64 {
	return time.Since(processStart).Seconds()
}
