package spyglass

import (
	"errors"
	"fmt"
)

// ErrNoResolver indicates a spy received a mutation but has no way to read
// the changed value: the subject does not implement Resolver and none was
// supplied at construction.
var ErrNoResolver = errors.New("no value resolver for subject")

// ResolveError indicates an attribute identifier could not be mapped to a
// value. It carries the subject and attribute for diagnosability; spies
// report it instead of logging a nil record.
type ResolveError struct {
	Subject   Subject
	Attribute string
	Err       error
}

// Error implements error.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q on subject %s: %v", e.Attribute, e.Subject.SubjectID(), e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}
