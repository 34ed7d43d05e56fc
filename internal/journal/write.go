package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/protocol"
)

// Observe implements engine.Observer. The command row and any session
// changes are written in one transaction.
func (j *Journal) Observe(ctx context.Context, ev engine.Event) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal seq %d: begin: %w", ev.Seq, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commands (seq, kind, line, session_id, depth, output)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		ev.Seq,
		ev.Command.Kind.String(),
		ev.Command.String(),
		ev.SessionID,
		ev.Depth,
		strings.Join(ev.Output, "\n"),
	)
	if err != nil {
		return fmt.Errorf("journal seq %d: insert command: %w", ev.Seq, err)
	}

	if ev.Command.Kind == protocol.KindBegin {
		if err = openSession(ctx, tx, ev.SessionID, ev.Seq); err != nil {
			return fmt.Errorf("journal seq %d: %w", ev.Seq, err)
		}
	}

	for _, id := range ev.Closed {
		if err = closeSession(ctx, tx, id, ev.Seq, string(ev.Outcome)); err != nil {
			return fmt.Errorf("journal seq %d: %w", ev.Seq, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("journal seq %d: commit: %w", ev.Seq, err)
	}
	return nil
}

// CloseOpenSessions marks every open session abandoned at seq.
// Returns the number of sessions updated.
func (j *Journal) CloseOpenSessions(ctx context.Context, seq int64) (int64, error) {
	res, err := j.db.ExecContext(ctx, `
		UPDATE sessions SET closed_seq = ?, outcome = ?
		WHERE outcome = ?
	`, seq, OutcomeAbandoned, OutcomeOpen)
	if err != nil {
		return 0, fmt.Errorf("close open sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("close open sessions: %w", err)
	}
	return n, nil
}

func openSession(ctx context.Context, tx *sql.Tx, id string, seq int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, opened_seq, outcome) VALUES (?, ?, ?)
	`, id, seq, OutcomeOpen)
	if err != nil {
		return fmt.Errorf("open session %s: %w", id, err)
	}
	return nil
}

func closeSession(ctx context.Context, tx *sql.Tx, id string, seq int64, outcome string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE sessions SET closed_seq = ?, outcome = ? WHERE id = ?
	`, seq, outcome, id)
	if err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}
