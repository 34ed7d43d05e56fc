// Package journal records executed simpledb commands in a SQLite database.
//
// The journal is an audit trail, not a persistence layer: nothing reads it
// back into a store. It holds two tables:
//   - commands: one row per executed command, keyed by logical seq
//   - sessions: one row per BEGIN with its closing seq and outcome
//
// A session's outcome is "open" until ROLLBACK ("rolled_back") or COMMIT
// ("committed") closes it. Sessions still open when a run ends are marked
// "abandoned" by CloseOpenSessions, since their undo logs die with the process.
//
// All queries order by seq ASC so output is stable across reads.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
package journal
