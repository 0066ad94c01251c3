// Package track implements polling change detection over watched subjects.
//
// Where a Spy is pushed to (subjects announce their own mutations), a
// Tracker polls: each subject exposes a dirty flag it sets when its
// observable state changes, and once per cycle the host calls Refresh, which
// journals a change record for every watched subject whose flag is set and
// then clears the flag. Trackers never schedule their own cycles; the host's
// update loop is the cycle driver.
//
// Three variants share one Tracker type:
//
//   - New: watches exactly one subject, fixed at construction.
//   - NewScanner: rescans a universe every cycle, watching the subjects a
//     predicate accepts.
//   - NewOmniscient: a scanner with no predicate, watching everything alive.
//
// Scanners only grow their watched set by default; subjects that vanish from
// the universe stay watched until they report dead. WithPruning opts into
// dropping them at scan time instead.
//
// Trackers are not safe for concurrent use.
package track
