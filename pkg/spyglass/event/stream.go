package event

import (
	"fmt"
	"log/slog"
)

// Listener receives a payload from a stream. A non-nil error is reported to
// the stream's error handler and does not stop delivery to later listeners.
type Listener[T any] func(payload T) error

// Handle identifies a registered listener for later removal.
type Handle uint64

// ErrorHandler receives errors raised by listeners during dispatch.
type ErrorHandler func(err error)

// Stream is a synchronous multicast dispatcher.
//
// Notify invokes every listener registered at the moment Notify begins, in
// registration order, on the calling goroutine. A listener added during
// dispatch does not receive the in-flight payload; a listener removed during
// dispatch still receives it.
type Stream[T any] struct {
	entries []entry[T]
	nextID  Handle
	onError ErrorHandler
}

type entry[T any] struct {
	handle   Handle
	listener Listener[T]
}

// NewStream creates an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Add registers a listener and returns its handle.
func (s *Stream[T]) Add(l Listener[T]) Handle {
	s.nextID++
	s.entries = append(s.entries, entry[T]{handle: s.nextID, listener: l})
	return s.nextID
}

// Remove unregisters the listener with the given handle.
// Removing a handle that is not registered is a no-op.
func (s *Stream[T]) Remove(h Handle) {
	for i, e := range s.entries {
		if e.handle == h {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (s *Stream[T]) Len() int {
	return len(s.entries)
}

// SetErrorHandler sets the handler invoked when a listener returns an error
// or panics. If no handler is set, failures are logged at Warn via
// slog.Default.
func (s *Stream[T]) SetErrorHandler(h ErrorHandler) {
	s.onError = h
}

// HasErrorHandler reports whether an error handler is installed.
func (s *Stream[T]) HasErrorHandler() bool {
	return s.onError != nil
}

// Notify delivers payload to every currently registered listener.
// Zero listeners is a no-op. Listener failures are isolated: each failure is
// reported through the error handler and delivery continues.
func (s *Stream[T]) Notify(payload T) {
	if len(s.entries) == 0 {
		return
	}

	// Snapshot so registry mutations during dispatch don't affect this
	// notification.
	snapshot := make([]entry[T], len(s.entries))
	copy(snapshot, s.entries)

	for _, e := range snapshot {
		if err := s.dispatch(e.listener, payload); err != nil {
			s.report(err)
		}
	}
}

// dispatch invokes a single listener, converting a panic into an error so a
// misbehaving listener cannot take down the dispatch loop.
func (s *Stream[T]) dispatch(l Listener[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ListenerError{Err: fmt.Errorf("%v", r), Panicked: true}
		}
	}()

	if lerr := l(payload); lerr != nil {
		return &ListenerError{Err: lerr}
	}
	return nil
}

func (s *Stream[T]) report(err error) {
	if s.onError != nil {
		s.onError(err)
		return
	}
	slog.Default().Warn("stream listener failed",
		slog.String("error", err.Error()),
	)
}
