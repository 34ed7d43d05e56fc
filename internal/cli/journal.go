package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/simpledb/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database string
	Session  string // optional - commands for one session only
}

// JournalResult is the journal command's output.
type JournalResult struct {
	Commands []journal.Entry   `json:"commands"`
	Sessions []journal.Session `json:"sessions"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show journaled commands and sessions",
		Long: `Print the commands and sessions recorded by "simpledb run --journal".

Examples:
  simpledb journal --db ./simpledb.db
  simpledb journal --db ./simpledb.db --session 0190a5c2-...
  simpledb journal --db ./simpledb.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "show commands for one session only")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	result := JournalResult{}
	result.Commands, err = j.Commands(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read commands", err)
	}
	result.Sessions, err = j.Sessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sessions", err)
	}

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if opts.Format == "json" {
		return f.Success(result)
	}
	return f.Success(formatJournalText(result))
}

func formatJournalText(r JournalResult) string {
	var b strings.Builder
	if len(r.Commands) == 0 {
		b.WriteString("No commands journaled.")
	}
	for _, e := range r.Commands {
		fmt.Fprintf(&b, "%6d  %s%s", e.Seq, strings.Repeat("  ", e.Depth), e.Line)
		if len(e.Output) > 0 {
			fmt.Fprintf(&b, "  => %s", strings.Join(e.Output, " | "))
		}
		b.WriteString("\n")
	}

	if len(r.Sessions) > 0 {
		b.WriteString("\nSessions:\n")
		for _, s := range r.Sessions {
			closed := "-"
			if s.ClosedSeq != nil {
				closed = fmt.Sprintf("%d", *s.ClosedSeq)
			}
			fmt.Fprintf(&b, "  %s  opened=%d closed=%s %s\n", s.ID, s.OpenedSeq, closed, s.Outcome)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
