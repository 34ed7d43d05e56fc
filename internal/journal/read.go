package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Entry is one journaled command.
type Entry struct {
	Seq       int64    `json:"seq"`
	Kind      string   `json:"kind"`
	Line      string   `json:"line"`
	SessionID string   `json:"session_id,omitempty"`
	Depth     int      `json:"depth"`
	Output    []string `json:"output,omitempty"`
}

// Session is one journaled transaction.
type Session struct {
	ID        string `json:"id"`
	OpenedSeq int64  `json:"opened_seq"`
	ClosedSeq *int64 `json:"closed_seq,omitempty"`
	Outcome   string `json:"outcome"`
}

// LastSeq returns the highest journaled seq, or 0 for an empty journal.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := j.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM commands").Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// Commands returns journaled commands ordered by seq. A non-empty sessionID
// limits the result to commands executed while that session was innermost.
//
// Returns an empty slice (not nil) if nothing matches.
func (j *Journal) Commands(ctx context.Context, sessionID string) ([]Entry, error) {
	query := `SELECT seq, kind, line, session_id, depth, output FROM commands`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY seq ASC`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var output string
		if err := rows.Scan(&e.Seq, &e.Kind, &e.Line, &e.SessionID, &e.Depth, &output); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		if output != "" {
			e.Output = strings.Split(output, "\n")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return entries, nil
}

// Sessions returns all journaled sessions ordered by opening seq.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, opened_seq, closed_seq, outcome
		FROM sessions
		ORDER BY opened_seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		var closed sql.NullInt64
		if err := rows.Scan(&s.ID, &s.OpenedSeq, &closed, &s.Outcome); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if closed.Valid {
			v := closed.Int64
			s.ClosedSeq = &v
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
