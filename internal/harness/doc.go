// Package harness runs scripted simpledb sessions from YAML scenario files.
//
// # Scenario Format
//
//	name: nested_rollback
//	description: "inner rollback restores outer value"
//	lookback: 5        # optional, defaults to txn.DefaultLookback
//	input: |
//	  BEGIN
//	  SET a 1
//	  BEGIN
//	  SET a 2
//	  ROLLBACK
//	  GET a
//	expect:
//	  - "1"
//	final_state:       # optional, subset match on committed entries
//	  a: "1"
//	absent: [b]        # optional, keys that must be unset at the end
//
// # Deterministic Testing
//
// Every scenario runs against a fresh engine with sequential session ids
// ("session-1", "session-2", ...) and an in-memory journal. The trace is read
// back from the journal, so two runs of the same scenario produce identical
// traces and can be compared against golden files with RunWithGolden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/nested.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
