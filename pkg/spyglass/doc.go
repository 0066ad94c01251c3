// Package spyglass is a change-tracking and logging layer for mutable object
// graphs. Stateful components declare that a property changed; spyglass
// propagates the change as a structured event to interested listeners and
// records an ordered, append-only history keyed by timestamp.
//
// The package is built from three pieces:
//
//   - event.Stream: a synchronous multicast primitive with snapshot dispatch
//     and per-listener failure isolation.
//   - journal.Journal: an append-only ordered log mapping a timestamp key to
//     an insertion-ordered bucket of values, notifying subscribers on every
//     append.
//   - Spy and track.Tracker: the push and poll halves of change detection. A
//     Spy binds one subject's mutation notifications to a journal, resolving
//     the changed value lazily at append time. A Tracker polls a watched set
//     of subjects each cycle and journals everything whose dirty flag is set.
//
// spyglass never schedules anything itself: hosts call NotifyMutation from
// their setters and drive Tracker.Refresh from their update loop. All
// mutation, notification, and logging for a given spy or tracker must happen
// on one goroutine.
package spyglass
