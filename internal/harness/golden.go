package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of a scenario run.
type Snapshot struct {
	Scenario   string            `json:"scenario"`
	Output     []string          `json:"output"`
	Trace      []TraceEvent      `json:"trace"`
	FinalState map[string]string `json:"final_state"`
}

// MarshalSnapshot renders a result as indented JSON with a trailing newline.
// encoding/json sorts map keys, so the bytes are stable.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snap := Snapshot{
		Scenario:   name,
		Output:     result.Output,
		Trace:      result.Trace,
		FinalState: result.FinalState,
	}
	if snap.Output == nil {
		snap.Output = []string{}
	}
	if snap.Trace == nil {
		snap.Trace = []TraceEvent{}
	}
	if snap.FinalState == nil {
		snap.FinalState = map[string]string{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the run result so callers can also inspect Pass and Errors.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalSnapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
