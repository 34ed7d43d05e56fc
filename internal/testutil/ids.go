// Package testutil holds deterministic helpers for tests and scenario runs.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator yields "<prefix>-1", "<prefix>-2", ... as session ids.
//
// Unlike txn.FixedGenerator it never runs out, so scenario files can open any
// number of sessions and still produce byte-identical traces.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "session".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
//
// Implements txn.IDGenerator.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
