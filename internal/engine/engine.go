package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/simpledb/internal/kv"
	"github.com/roach88/simpledb/internal/protocol"
	"github.com/roach88/simpledb/internal/txn"
)

// Output literals.
const (
	NullOutput          = "NULL"
	NoTransactionOutput = "NO TRANSACTION"
)

// Engine dispatches commands to the store and session stack.
type Engine struct {
	store    *kv.Store
	stack    *txn.Stack
	clock    *Clock
	observer Observer
	logger   *slog.Logger
}

type config struct {
	txnOpts  []txn.Option
	clock    *Clock
	observer Observer
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*config)

// WithLookback sets the session dedup window depth (must be > 1).
func WithLookback(n int) Option {
	return func(c *config) {
		c.txnOpts = append(c.txnOpts, txn.WithLookback(n))
	}
}

// WithIDGenerator sets the session id generator.
func WithIDGenerator(g txn.IDGenerator) Option {
	return func(c *config) {
		c.txnOpts = append(c.txnOpts, txn.WithIDGenerator(g))
	}
}

// WithObserver registers an observer for executed commands.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithClock replaces the logical clock, e.g. to continue a journal's numbering.
func WithClock(clock *Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an engine with an empty store.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = NewClock()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	store := kv.New()
	stack, err := txn.New(store, cfg.txnOpts...)
	if err != nil {
		return nil, fmt.Errorf("create session stack: %w", err)
	}

	return &Engine{
		store:    store,
		stack:    stack,
		clock:    cfg.clock,
		observer: cfg.observer,
		logger:   cfg.logger,
	}, nil
}

// Snapshot returns a copy of the store's entries.
func (e *Engine) Snapshot() map[string]string {
	return e.store.Snapshot()
}

// Depth returns the number of open sessions.
func (e *Engine) Depth() int {
	return e.stack.Depth()
}

// Lookback returns the session dedup window depth.
func (e *Engine) Lookback() int {
	return e.stack.Lookback()
}

// Seq returns the seq of the last executed command.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

// Execute runs a single command and returns its output lines.
// KindInvalid and KindEnd produce no output and are not observed.
func (e *Engine) Execute(ctx context.Context, cmd protocol.Command) ([]string, error) {
	if cmd.Kind == protocol.KindInvalid || cmd.Kind == protocol.KindEnd {
		return nil, nil
	}

	ev := Event{
		Seq:     e.clock.Next(),
		Command: cmd,
	}

	if cmd.Kind.Mutating() && e.changes(cmd) {
		e.stack.Record(cmd.Key)
	}

	switch cmd.Kind {
	case protocol.KindSet:
		e.store.Set(cmd.Key, cmd.Value)

	case protocol.KindUnset:
		e.store.Unset(cmd.Key)

	case protocol.KindGet:
		v, ok := e.store.Get(cmd.Key)
		if !ok {
			v = NullOutput
		}
		ev.Output = []string{v}

	case protocol.KindNumEqualTo:
		ev.Output = []string{strconv.Itoa(e.store.CountEqualTo(cmd.Value))}

	case protocol.KindBegin:
		id := e.stack.Begin()
		e.logger.Debug("session opened", "session", id, "depth", e.stack.Depth(), "seq", ev.Seq)

	case protocol.KindRollback:
		id, err := e.stack.Rollback()
		if txn.IsNoTransaction(err) {
			ev.Output = []string{NoTransactionOutput}
			break
		}
		ev.SessionID = id
		ev.Closed = []string{id}
		ev.Outcome = OutcomeRolledBack
		e.logger.Debug("session rolled back", "session", id, "depth", e.stack.Depth(), "seq", ev.Seq)

	case protocol.KindCommit:
		ev.Closed = e.stack.Commit()
		if len(ev.Closed) > 0 {
			ev.Outcome = OutcomeCommitted
		}
		e.logger.Debug("sessions committed", "count", len(ev.Closed), "seq", ev.Seq)

	default:
		return nil, fmt.Errorf("unhandled command kind %s", cmd.Kind)
	}

	if ev.SessionID == "" {
		ev.SessionID = e.stack.CurrentID()
	}
	ev.Depth = e.stack.Depth()

	if e.observer != nil {
		if err := e.observer.Observe(ctx, ev); err != nil {
			return ev.Output, fmt.Errorf("observe seq %d: %w", ev.Seq, err)
		}
	}
	return ev.Output, nil
}

// changes reports whether a mutating command will touch the store.
// UNSET of an absent key is a no-op and leaves no undo record.
func (e *Engine) changes(cmd protocol.Command) bool {
	if cmd.Kind == protocol.KindUnset {
		_, ok := e.store.Get(cmd.Key)
		return ok
	}
	return true
}

// Run reads commands from r and writes output lines to w until END, a blank
// line, end of input, or context cancellation.
func (e *Engine) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read commands: %w", readErr)
		}
		atEOF := readErr != nil
		if atEOF && text == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd := protocol.ParseLine(text)
		switch cmd.Kind {
		case protocol.KindEnd:
			e.logger.Debug("end of commands", "seq", e.clock.Current())
			return nil
		case protocol.KindInvalid:
			e.logger.Debug("ignoring malformed line", "bytes", len(text))
		default:
			out, err := e.Execute(ctx, cmd)
			if err != nil {
				return err
			}
			for _, line := range out {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
		}

		if atEOF {
			return nil
		}
	}
}
