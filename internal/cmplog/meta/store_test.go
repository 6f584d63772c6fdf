package meta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
)

func seq(vals ...cmpval.Values) []cmpval.Values {
	return vals
}

func fill(s *Store) {
	s.Begin(Baseline)
	s.SetHeader(1, cmpmap.HeaderFields{Hits: 1, Type: cmpmap.TypeIns}.Encode())
	s.SetHeader(3, cmpmap.HeaderFields{Hits: 2, Type: cmpmap.TypeIns}.Encode())
	s.Put(Baseline, 1, seq(cmpval.FromU8(1, 2)))
	s.Put(Baseline, 3, seq(cmpval.FromU32(5, 5), cmpval.FromU32(6, 6)))

	s.Begin(Mutated)
	s.Put(Mutated, 3, seq(cmpval.FromU32(9, 5)))
}

func TestBeginBaselineKeepsMutated(t *testing.T) {
	s := NewStore()
	fill(s)

	s.Begin(Baseline)

	assert.Equal(t, 0, s.HeaderCount())
	assert.Equal(t, 0, s.Len(Baseline))
	assert.Nil(t, s.Orig(1))
	if diff := cmp.Diff(seq(cmpval.FromU32(9, 5)), s.New(3)); diff != "" {
		t.Errorf("New(3) changed by baseline Begin (-want +got):\n%s", diff)
	}
}

func TestBeginMutatedKeepsBaseline(t *testing.T) {
	s := NewStore()
	fill(s)

	s.Begin(Mutated)

	assert.Equal(t, 0, s.Len(Mutated))
	assert.Equal(t, 2, s.HeaderCount())
	assert.Equal(t, []int{1, 3}, s.Indices(Baseline))

	h, ok := s.Header(3)
	require.True(t, ok)
	assert.Equal(t, uint32(2), h.Hits())

	want := seq(cmpval.FromU32(5, 5), cmpval.FromU32(6, 6))
	if diff := cmp.Diff(want, s.Orig(3)); diff != "" {
		t.Errorf("Orig(3) changed by mutated Begin (-want +got):\n%s", diff)
	}
}

func TestPutReplaces(t *testing.T) {
	s := NewStore()
	s.Put(Mutated, 4, seq(cmpval.FromU16(1, 1), cmpval.FromU16(2, 2)))
	s.Put(Mutated, 4, seq(cmpval.FromU16(3, 3)))

	if diff := cmp.Diff(seq(cmpval.FromU16(3, 3)), s.New(4)); diff != "" {
		t.Errorf("New(4) (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, s.Len(Mutated))
}

func TestIndicesSorted(t *testing.T) {
	s := NewStore()
	for _, idx := range []int{40, 2, 17, 9} {
		s.Put(Mutated, idx, seq(cmpval.FromU8(0, 0)))
	}
	assert.Equal(t, []int{2, 9, 17, 40}, s.Indices(Mutated))
	assert.Empty(t, s.Indices(Baseline))
}

// TestBufferRecycles tests that sequences cleared by Begin are reused.
func TestBufferRecycles(t *testing.T) {
	s := NewStore()
	buf := s.Buffer(8)
	require.Equal(t, 0, len(buf))
	require.GreaterOrEqual(t, cap(buf), 8)

	buf = append(buf, cmpval.FromBytes([]byte("abc"), []byte("abd")))
	s.Put(Mutated, 0, buf)
	s.Begin(Mutated)

	again := s.Buffer(4)
	assert.Equal(t, 0, len(again))
	assert.Same(t, &buf[:1][0], &again[:1][0], "expected the released backing array")
	assert.False(t, again[:1][0].Valid(), "released values must be cleared")

	// Too small spares are dropped, not returned.
	s.Release(make([]cmpval.Values, 0, 1))
	big := s.Buffer(64)
	assert.GreaterOrEqual(t, cap(big), 64)
}

func TestStoreOf(t *testing.T) {
	var st Session
	require.Nil(t, st.CmpValues())

	s := StoreOf(&st)
	require.NotNil(t, s)
	assert.Same(t, s, st.CmpValues())
	assert.Same(t, s, StoreOf(&st), "second call must reuse the store")
}

func TestPassString(t *testing.T) {
	assert.Equal(t, "baseline", Baseline.String())
	assert.Equal(t, "mutated", Mutated.String())
}
