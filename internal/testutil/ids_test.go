package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator(t *testing.T) {
	g := NewSequentialIDGenerator("tx")
	assert.Equal(t, "tx-1", g.Generate())
	assert.Equal(t, "tx-2", g.Generate())
}

func TestSequentialIDGenerator_DefaultPrefix(t *testing.T) {
	g := NewSequentialIDGenerator("")
	assert.Equal(t, "session-1", g.Generate())
}
