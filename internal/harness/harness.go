package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/journal"
	"github.com/roach88/simpledb/internal/testutil"
)

// TraceEvent is one executed command as read back from the journal.
type TraceEvent struct {
	Seq     int64    `json:"seq"`
	Command string   `json:"command"`
	Session string   `json:"session,omitempty"`
	Depth   int      `json:"depth"`
	Output  []string `json:"output,omitempty"`
}

// Result holds the outcome of a scenario run.
type Result struct {
	Pass       bool
	Errors     []string
	Output     []string
	Trace      []TraceEvent
	FinalState map[string]string
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Run executes a scenario against a fresh engine and in-memory journal.
// The returned error covers setup and I/O failures; expectation mismatches
// are reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	opts := []engine.Option{
		engine.WithObserver(j),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("session")),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.Lookback != 0 {
		opts = append(opts, engine.WithLookback(scenario.Lookback))
	}
	eng, err := engine.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	ctx := context.Background()
	var out bytes.Buffer
	if err := eng.Run(ctx, strings.NewReader(scenario.Input), &out); err != nil {
		return nil, fmt.Errorf("run %s: %w", scenario.Name, err)
	}

	entries, err := j.Commands(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	result := &Result{
		Pass:       true,
		Output:     splitLines(out.String()),
		Trace:      make([]TraceEvent, len(entries)),
		FinalState: eng.Snapshot(),
	}
	for i, e := range entries {
		result.Trace[i] = TraceEvent{
			Seq:     e.Seq,
			Command: e.Line,
			Session: e.SessionID,
			Depth:   e.Depth,
			Output:  e.Output,
		}
	}

	checkOutput(scenario, result)
	checkFinalState(scenario, result)
	return result, nil
}

func checkOutput(s *Scenario, r *Result) {
	if len(s.Expect) != len(r.Output) {
		r.fail("output: expected %d lines, got %d: %q", len(s.Expect), len(r.Output), r.Output)
		return
	}
	for i := range s.Expect {
		if s.Expect[i] != r.Output[i] {
			r.fail("output[%d]: expected %q, got %q", i, s.Expect[i], r.Output[i])
		}
	}
}

func checkFinalState(s *Scenario, r *Result) {
	for _, key := range sortedKeys(s.FinalState) {
		want := s.FinalState[key]
		got, ok := r.FinalState[key]
		switch {
		case !ok:
			r.fail("final_state[%s]: expected %q, key not set", key, want)
		case got != want:
			r.fail("final_state[%s]: expected %q, got %q", key, want, got)
		}
	}
	for _, key := range s.Absent {
		if got, ok := r.FinalState[key]; ok {
			r.fail("absent[%s]: key is set to %q", key, got)
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
