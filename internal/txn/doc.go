// Package txn implements nested transactional sessions over a key-value state.
//
// A Stack holds the currently open sessions, innermost last. Each session is
// an undo log of (key, prior value or absent) records captured immediately
// before a mutation is applied. Mutations reach the state right away; the log
// only remembers how to reverse them.
//
//   - Begin pushes an empty session.
//   - Record captures the current value of a key into the innermost session.
//   - Rollback pops the innermost session and replays its log newest first,
//     writing straight to the State so the restorations are never logged by
//     an outer session.
//   - Commit forgets every session without replay.
//
// # Deduplication
//
// Record skips a capture when an identical record already exists among the
// last lookback-1 records of the innermost session. The earliest record for a
// key is never dropped, and rollback applies the earliest record last, so the
// key is always restored to its value at Begin.
package txn
