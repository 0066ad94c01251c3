package journal_test

import (
	"errors"
	"testing"

	"github.com/randalmurphal/spyglass/pkg/spyglass/event"
	"github.com/randalmurphal/spyglass/pkg/spyglass/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_AppendPreservesBucketOrder(t *testing.T) {
	j := journal.New[float64, string]()

	j.Append(0.2, "b1")
	j.Append(0.1, "a1")
	j.Append(0.2, "b2")
	j.Append(0.2, "b3")

	assert.Equal(t, []string{"a1"}, j.Get(0.1))
	assert.Equal(t, []string{"b1", "b2", "b3"}, j.Get(0.2))
	assert.Equal(t, 4, j.Len())
	assert.Equal(t, 2, j.KeyCount())
}

func TestJournal_KeysSorted(t *testing.T) {
	j := journal.New[int, string]()

	for _, k := range []int{5, 1, 3, 2, 4, 3} {
		j.Append(k, "v")
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, j.Keys())

	first, ok := j.First()
	require.True(t, ok)
	assert.Equal(t, 1, first)

	last, ok := j.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestJournal_Empty(t *testing.T) {
	j := journal.New[float64, string]()

	assert.Nil(t, j.Get(1.0))
	assert.Empty(t, j.Keys())
	assert.Equal(t, 0, j.Len())

	_, ok := j.First()
	assert.False(t, ok)
	_, ok = j.Last()
	assert.False(t, ok)
}

func TestJournal_DuplicatePairsRetained(t *testing.T) {
	j := journal.New[int, string]()

	j.Append(1, "x")
	j.Append(1, "x")

	assert.Equal(t, []string{"x", "x"}, j.Get(1))
}

func TestJournal_GetReturnsCopy(t *testing.T) {
	j := journal.New[int, string]()
	j.Append(1, "a")

	got := j.Get(1)
	got[0] = "mutated"

	assert.Equal(t, []string{"a"}, j.Get(1))
}

func TestJournal_SubscribeNotifiedAfterStore(t *testing.T) {
	j := journal.New[float64, string]()

	var seen []journal.Entry[float64, string]
	j.Subscribe(func(e journal.Entry[float64, string]) error {
		// The value must already be readable when the listener fires.
		assert.Contains(t, j.Get(e.Key), e.Value)
		seen = append(seen, e)
		return nil
	})

	j.Append(0.1, "a")
	j.Append(0.2, "b")

	require.Len(t, seen, 2)
	assert.Equal(t, journal.Entry[float64, string]{Key: 0.1, Value: "a"}, seen[0])
	assert.Equal(t, journal.Entry[float64, string]{Key: 0.2, Value: "b"}, seen[1])
}

func TestJournal_Unsubscribe(t *testing.T) {
	j := journal.New[int, int]()

	count := 0
	h := j.Subscribe(func(journal.Entry[int, int]) error {
		count++
		return nil
	})

	j.Append(1, 1)
	j.Unsubscribe(h)
	j.Append(2, 2)

	assert.Equal(t, 1, count)

	// Unknown handle removal is a no-op.
	j.Unsubscribe(event.Handle(12345))
}

func TestJournal_ListenerErrorDoesNotBlockAppend(t *testing.T) {
	j := journal.New[int, string]()

	var reported []error
	j.SetErrorHandler(func(err error) { reported = append(reported, err) })

	j.Subscribe(func(journal.Entry[int, string]) error {
		return errors.New("sink unavailable")
	})

	second := 0
	j.Subscribe(func(journal.Entry[int, string]) error {
		second++
		return nil
	})

	j.Append(1, "a")

	assert.Equal(t, []string{"a"}, j.Get(1), "append must succeed regardless of listener failures")
	assert.Equal(t, 1, second)
	require.Len(t, reported, 1)
}

func TestJournal_RangeAndEntries(t *testing.T) {
	j := journal.New[int, string]()
	j.Append(2, "c")
	j.Append(1, "a")
	j.Append(1, "b")

	var flat []string
	j.Range(func(k int, v string) bool {
		flat = append(flat, v)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, flat)

	entries := j.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, journal.Entry[int, string]{Key: 1, Value: "a"}, entries[0])
	assert.Equal(t, journal.Entry[int, string]{Key: 1, Value: "b"}, entries[1])
	assert.Equal(t, journal.Entry[int, string]{Key: 2, Value: "c"}, entries[2])

	// Early stop.
	var stopped []string
	j.Range(func(k int, v string) bool {
		stopped = append(stopped, v)
		return len(stopped) < 2
	})
	assert.Equal(t, []string{"a", "b"}, stopped)
}
