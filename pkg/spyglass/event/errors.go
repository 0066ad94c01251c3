package event

import "fmt"

// ListenerError wraps a failure raised by a listener during dispatch.
type ListenerError struct {
	Err      error // underlying error (or recovered panic value)
	Panicked bool  // true if the listener panicked rather than returning
}

// Error implements error.
func (e *ListenerError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("listener panicked: %v", e.Err)
	}
	return fmt.Sprintf("listener failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
