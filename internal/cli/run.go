package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Script  string // read commands from this file instead of stdin
	Journal string // optional SQLite journal path
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process commands from stdin or a script",
		Long: `Read commands one line at a time and print results to stdout.

Processing stops at END, a blank line, or end of input. Malformed lines are
ignored. With --journal every executed command is also recorded in a SQLite
database for later inspection with "simpledb journal".

Examples:
  simpledb run
  simpledb run --script ./commands.txt
  simpledb run --journal ./simpledb.db --lookback 8 < commands.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Script, "script", "", "read commands from file instead of stdin")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "record executed commands in a SQLite journal")

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var in io.Reader = cmd.InOrStdin()
	if opts.Script != "" {
		f, err := os.Open(opts.Script)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open script", err)
		}
		defer f.Close()
		in = f
	}

	engOpts := []engine.Option{
		engine.WithLookback(opts.Lookback),
		engine.WithLogger(slog.Default()),
	}

	var j *journal.Journal
	if opts.Journal != "" {
		var err error
		j, err = journal.Open(opts.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()

		last, err := j.LastSeq(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		slog.Debug("journal ready", "path", opts.Journal, "last_seq", last)
		engOpts = append(engOpts,
			engine.WithObserver(j),
			engine.WithClock(engine.NewClockAt(last)),
		)
	}

	eng, err := engine.New(engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	runErr := eng.Run(ctx, in, cmd.OutOrStdout())

	if j != nil {
		// Undo logs die with the process; record that in the journal.
		if n, err := j.CloseOpenSessions(ctx, eng.Seq()); err != nil {
			slog.Error("failed to close open sessions", "error", err)
		} else if n > 0 {
			slog.Debug("abandoned open sessions", "count", n)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return WrapExitError(ExitFailure, "processing failed", runErr)
	}
	return nil
}
