package kv

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_NewKey(t *testing.T) {
	s := New()
	s.Set("a", "10")

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "10", v)
	assert.Equal(t, 1, s.CountEqualTo("10"))
}

func TestSet_OverwriteMovesCount(t *testing.T) {
	s := New()
	s.Set("a", "10")
	s.Set("a", "20")

	v, _ := s.Get("a")
	assert.Equal(t, "20", v)
	assert.Equal(t, 0, s.CountEqualTo("10"))
	assert.Equal(t, 1, s.CountEqualTo("20"))
	_, tracked := s.counts["10"]
	assert.False(t, tracked, "zero counts must not be stored")
}

func TestSet_SameValueTwice(t *testing.T) {
	s := New()
	s.Set("a", "10")
	s.Set("a", "10")

	assert.Equal(t, 1, s.CountEqualTo("10"))
	assert.Equal(t, 1, s.Len())
}

func TestUnset(t *testing.T) {
	s := New()
	s.Set("a", "10")
	s.Set("b", "10")
	s.Unset("a")

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.CountEqualTo("10"))

	s.Unset("b")
	assert.Equal(t, 0, s.CountEqualTo("10"))
	assert.Empty(t, s.counts)
}

func TestUnset_AbsentKeyIsNoop(t *testing.T) {
	s := New()
	s.Set("a", "10")
	s.Unset("missing")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.CountEqualTo("10"))
}

func TestCountEqualTo_UnknownValue(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.CountEqualTo("nothing"))
}

func TestApply(t *testing.T) {
	s := New()
	s.Apply("a", "1", true)
	v, ok := s.Current("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	s.Apply("a", "", false)
	_, ok = s.Current("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.CountEqualTo("1"))
}

func TestSnapshot_IsCopy(t *testing.T) {
	s := New()
	s.Set("a", "1")
	snap := s.Snapshot()
	snap["a"] = "changed"
	snap["b"] = "2"

	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, s.Len())
}

func TestEndToEndExample(t *testing.T) {
	s := New()
	s.Set("a", "10")
	v, _ := s.Get("a")
	assert.Equal(t, "10", v)
	assert.Equal(t, 1, s.CountEqualTo("10"))
	s.Set("b", "10")
	assert.Equal(t, 2, s.CountEqualTo("10"))
	s.Unset("a")
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.CountEqualTo("10"))
}

// TestCountInvariant_Random checks counts against a recount of entries after
// every step of a random mutation sequence.
func TestCountInvariant_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := []string{"a", "b", "c", "d", "e"}
	values := []string{"1", "2", "3"}

	s := New()
	for i := 0; i < 2000; i++ {
		k := keys[rng.Intn(len(keys))]
		if rng.Intn(3) == 0 {
			s.Unset(k)
		} else {
			s.Set(k, values[rng.Intn(len(values))])
		}
		assertCountsConsistent(t, s)
	}
}

func assertCountsConsistent(t *testing.T, s *Store) {
	t.Helper()
	want := make(map[string]int)
	for _, v := range s.entries {
		want[v]++
	}
	require.Equal(t, want, s.counts)
}
