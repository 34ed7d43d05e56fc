package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"SET a 10", Command{Kind: KindSet, Key: "a", Value: "10"}},
		{"  SET\ta   10  ", Command{Kind: KindSet, Key: "a", Value: "10"}},
		{"GET a", Command{Kind: KindGet, Key: "a"}},
		{"UNSET a", Command{Kind: KindUnset, Key: "a"}},
		{"NUMEQUALTO 10", Command{Kind: KindNumEqualTo, Value: "10"}},
		{"BEGIN", Command{Kind: KindBegin}},
		{"ROLLBACK", Command{Kind: KindRollback}},
		{"COMMIT", Command{Kind: KindCommit}},
		{"END", Command{Kind: KindEnd}},
		{"", Command{Kind: KindEnd}},
		{"   \t ", Command{Kind: KindEnd}},

		// wrong token counts
		{"SET a", Command{Kind: KindInvalid}},
		{"SET a b c", Command{Kind: KindInvalid}},
		{"GET", Command{Kind: KindInvalid}},
		{"BEGIN now", Command{Kind: KindInvalid}},
		{"END please", Command{Kind: KindInvalid}},

		// unknown or wrong case
		{"set a 1", Command{Kind: KindInvalid}},
		{"DELETE a", Command{Kind: KindInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line))
		})
	}
}

func TestKind_Mutating(t *testing.T) {
	assert.True(t, KindSet.Mutating())
	assert.True(t, KindUnset.Mutating())
	assert.False(t, KindGet.Mutating())
	assert.False(t, KindBegin.Mutating())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "NUMEQUALTO", KindNumEqualTo.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "SET a 1", ParseLine("SET   a 1").String())
	assert.Equal(t, "UNSET a", ParseLine("UNSET a").String())
	assert.Equal(t, "NUMEQUALTO 1", ParseLine("NUMEQUALTO 1").String())
	assert.Equal(t, "ROLLBACK", ParseLine("ROLLBACK").String())
}
