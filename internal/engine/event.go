package engine

import (
	"context"

	"github.com/roach88/simpledb/internal/protocol"
)

// Outcome describes what happened to the sessions closed by a command.
type Outcome string

const (
	OutcomeNone       Outcome = ""
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeCommitted  Outcome = "committed"
)

// Event describes one executed command.
type Event struct {
	Seq     int64
	Command protocol.Command

	// SessionID is the innermost open session after the command, except for
	// ROLLBACK where it is the session that was popped.
	SessionID string

	// Depth is the number of open sessions after the command.
	Depth int

	Output []string

	// Closed lists sessions ended by ROLLBACK or COMMIT, outermost first.
	Closed  []string
	Outcome Outcome
}

// Observer receives an Event for every executed command.
// A non-nil error stops Run.
type Observer interface {
	Observe(ctx context.Context, ev Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event) error

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
