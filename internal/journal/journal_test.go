package journal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/txn"
)

// createTestJournal opens a fresh journal in a temp dir.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// runJournaled executes script through an engine observed by j.
func runJournaled(t *testing.T, j *Journal, script string, ids ...string) *engine.Engine {
	t.Helper()
	ctx := context.Background()
	last, err := j.LastSeq(ctx)
	require.NoError(t, err)

	e, err := engine.New(
		engine.WithObserver(j),
		engine.WithClock(engine.NewClockAt(last)),
		engine.WithIDGenerator(txn.NewFixedGenerator(ids...)),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, e.Run(ctx, strings.NewReader(script), &out))
	return e
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	v, err := j.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, j.Close())
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestLastSeq_Empty(t *testing.T) {
	j := createTestJournal(t)
	seq, err := j.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)
}

func TestObserve_RecordsCommands(t *testing.T) {
	j := createTestJournal(t)
	runJournaled(t, j, "SET a 10\nGET a\nNUMEQUALTO 10\nFOO\nGET b\n")

	entries, err := j.Commands(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 4, "malformed lines are not journaled")

	assert.Equal(t, Entry{Seq: 1, Kind: "SET", Line: "SET a 10"}, entries[0])
	assert.Equal(t, []string{"10"}, entries[1].Output)
	assert.Equal(t, []string{"1"}, entries[2].Output)
	assert.Equal(t, []string{"NULL"}, entries[3].Output)
}

func TestObserve_RecordsSessions(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	runJournaled(t, j, `BEGIN
SET a 1
BEGIN
SET a 2
ROLLBACK
BEGIN
COMMIT
ROLLBACK
`, "s1", "s2", "s3")

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "committed", sessions[0].Outcome)
	require.NotNil(t, sessions[0].ClosedSeq)
	assert.Equal(t, int64(7), *sessions[0].ClosedSeq)

	assert.Equal(t, "s2", sessions[1].ID)
	assert.Equal(t, "rolled_back", sessions[1].Outcome)
	assert.Equal(t, int64(3), sessions[1].OpenedSeq)
	require.NotNil(t, sessions[1].ClosedSeq)
	assert.Equal(t, int64(5), *sessions[1].ClosedSeq)

	assert.Equal(t, "committed", sessions[2].Outcome)

	inner, err := j.Commands(ctx, "s2")
	require.NoError(t, err)
	lines := make([]string, len(inner))
	for i, e := range inner {
		lines[i] = e.Line
	}
	assert.Equal(t, []string{"BEGIN", "SET a 2", "ROLLBACK"}, lines)

	all, err := j.Commands(ctx, "")
	require.NoError(t, err)
	last := all[len(all)-1]
	assert.Equal(t, "ROLLBACK", last.Line)
	assert.Equal(t, []string{"NO TRANSACTION"}, last.Output)
	assert.Equal(t, 0, last.Depth)
}

func TestCloseOpenSessions(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	runJournaled(t, j, "BEGIN\nBEGIN\nROLLBACK\n", "s1", "s2")

	n, err := j.CloseOpenSessions(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, sessions[0].Outcome)
	assert.Equal(t, "rolled_back", sessions[1].Outcome)
}

func TestObserve_ContinuesAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	runJournaled(t, j, "SET a 1\nGET a\n")
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	runJournaled(t, j, "GET a\n")

	entries, err := j.Commands(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[2].Seq)
	assert.Equal(t, []string{"NULL"}, entries[2].Output, "the store itself is not persisted")
}

func TestObserve_DuplicateSeqFails(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	runJournaled(t, j, "SET a 1\n")

	e, err := engine.New(engine.WithObserver(j))
	require.NoError(t, err)
	var out bytes.Buffer
	err = e.Run(ctx, strings.NewReader("SET b 2\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal seq 1")

	entries, err := j.Commands(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
