// Package journal provides the append-only ordered log backing spies and
// trackers.
//
// A Journal maps an ordered key (typically a timestamp) to an
// insertion-ordered bucket of values. Keys are kept sorted; appends to an
// existing key preserve prior entries. The journal never rejects an append
// and never removes a key. Every append synchronously notifies subscribers
// after the value is stored.
//
// Journals are single-writer/single-reader by contract and not safe for
// concurrent use.
package journal

import (
	"cmp"
	"slices"

	"github.com/randalmurphal/spyglass/pkg/spyglass/event"
)

// Entry is the payload delivered to append subscribers.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Journal is an append-only ordered multimap.
type Journal[K cmp.Ordered, V any] struct {
	keys    []K // sorted, unique
	buckets map[K][]V
	size    int
	appends *event.Stream[Entry[K, V]]
}

// New creates an empty journal.
func New[K cmp.Ordered, V any]() *Journal[K, V] {
	return &Journal[K, V]{
		buckets: make(map[K][]V),
		appends: event.NewStream[Entry[K, V]](),
	}
}

// Append stores value under key and notifies subscribers.
//
// If the key is new it is inserted at its sorted position; otherwise the
// value is appended after the bucket's existing entries. Duplicate (key,
// value) pairs are legal and retained. Subscribers are invoked synchronously,
// in registration order, after the value is stored.
func (j *Journal[K, V]) Append(key K, value V) {
	bucket, ok := j.buckets[key]
	if !ok {
		idx, _ := slices.BinarySearch(j.keys, key)
		j.keys = slices.Insert(j.keys, idx, key)
	}
	j.buckets[key] = append(bucket, value)
	j.size++

	j.appends.Notify(Entry[K, V]{Key: key, Value: value})
}

// Get returns a copy of the bucket for key, in append order.
// Returns nil if the key has never been appended to.
func (j *Journal[K, V]) Get(key K) []V {
	bucket, ok := j.buckets[key]
	if !ok {
		return nil
	}
	return slices.Clone(bucket)
}

// Keys returns all keys in ascending order.
func (j *Journal[K, V]) Keys() []K {
	return slices.Clone(j.keys)
}

// Len returns the total number of values across all keys.
func (j *Journal[K, V]) Len() int {
	return j.size
}

// KeyCount returns the number of distinct keys.
func (j *Journal[K, V]) KeyCount() int {
	return len(j.keys)
}

// First returns the smallest key, or false if the journal is empty.
func (j *Journal[K, V]) First() (K, bool) {
	if len(j.keys) == 0 {
		var zero K
		return zero, false
	}
	return j.keys[0], true
}

// Last returns the largest key, or false if the journal is empty.
func (j *Journal[K, V]) Last() (K, bool) {
	if len(j.keys) == 0 {
		var zero K
		return zero, false
	}
	return j.keys[len(j.keys)-1], true
}

// Range iterates entries in key order, values within a key in append order.
// Iteration stops when fn returns false.
func (j *Journal[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range j.keys {
		for _, v := range j.buckets[k] {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Entries returns the full log flattened into key order.
func (j *Journal[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, j.size)
	for _, k := range j.keys {
		for _, v := range j.buckets[k] {
			out = append(out, Entry[K, V]{Key: k, Value: v})
		}
	}
	return out
}

// Subscribe registers a listener invoked on every append.
func (j *Journal[K, V]) Subscribe(l event.Listener[Entry[K, V]]) event.Handle {
	return j.appends.Add(l)
}

// Unsubscribe removes an append listener. Unknown handles are a no-op.
func (j *Journal[K, V]) Unsubscribe(h event.Handle) {
	j.appends.Remove(h)
}

// SetErrorHandler sets the handler for append-listener failures.
// See event.Stream.SetErrorHandler for the default behavior.
func (j *Journal[K, V]) SetErrorHandler(h event.ErrorHandler) {
	j.appends.SetErrorHandler(h)
}
