package observer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
	"github.com/kolkov/cmplog/internal/cmplog/meta"
)

var testLayout = cmpmap.Layout{Width: 16, Height: cmpmap.DefaultHeight}

type pair struct{ v0, v1 uint64 }

func newMap(t *testing.T) *cmpmap.Map {
	t.Helper()
	m, err := cmpmap.Alloc(testLayout)
	require.NoError(t, err)
	return m
}

// record logs a 64-bit comparison sequence at index idx.
func record(t *testing.T, m *cmpmap.Map, idx int, pairs ...pair) {
	t.Helper()
	for _, p := range pairs {
		got := m.LogIns(uint32(idx), cmpmap.Shape64, cmpmap.AttrEqual, p.v0, p.v1, 0, 0)
		require.Equal(t, idx, got)
	}
}

func u64s(pairs ...pair) []cmpval.Values {
	out := make([]cmpval.Values, len(pairs))
	for i, p := range pairs {
		out[i] = cmpval.FromU64(p.v0, p.v1)
	}
	return out
}

func counting(from uint64, n int, step uint64) []pair {
	out := make([]pair, n)
	for i := range out {
		out[i] = pair{v0: from + uint64(i)*step, v1: 0}
	}
	return out
}

// TestLoopFilter covers the monotonic-sequence heuristic on 64-bit operands.
func TestLoopFilter(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []pair
		wantKept bool
	}{
		{
			// Scenario A: every transition increments.
			name:  "strictly increasing v0",
			pairs: []pair{{10, 0}, {11, 0}, {12, 0}, {13, 0}, {14, 0}, {15, 0}},
		},
		{
			name:  "strictly decreasing v0",
			pairs: []pair{{15, 0}, {14, 0}, {13, 0}, {12, 0}, {11, 0}, {10, 0}},
		},
		{
			name:  "increasing v1 only",
			pairs: []pair{{7, 100}, {3, 101}, {9, 102}, {1, 103}, {8, 104}},
		},
		{
			name:  "decreasing v1 only",
			pairs: []pair{{7, 9}, {3, 8}, {9, 7}, {1, 6}, {8, 5}, {0, 4}},
		},
		{
			// One break in the chain: a ring log that wrapped.
			name:  "wrapped ring tolerated",
			pairs: []pair{{8, 0}, {9, 0}, {10, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}},
		},
		{
			name:  "counter reset at the end tolerated",
			pairs: []pair{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {0, 0}},
		},
		{
			name:  "increment across uint64 wraparound",
			pairs: []pair{{1<<64 - 3, 0}, {1<<64 - 2, 0}, {1<<64 - 1, 0}, {0, 0}, {1, 0}},
		},
		{
			name:  "decrement across zero",
			pairs: []pair{{2, 5}, {1, 5}, {0, 5}, {1<<64 - 1, 5}, {1<<64 - 2, 5}},
		},
		{
			// An outlier in the middle breaks two transitions: 3 of 5 < 4.
			name:     "single outlier value breaks two transitions",
			pairs:    []pair{{10, 0}, {99, 0}, {12, 0}, {13, 0}, {14, 0}, {15, 0}},
			wantKept: true,
		},
		{
			name:     "constant operands",
			pairs:    []pair{{5, 5}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {5, 5}},
			wantKept: true,
		},
		{
			name:     "step of two",
			pairs:    counting(0, 8, 2),
			wantKept: true,
		},
		{
			name:     "random values",
			pairs:    []pair{{0x41, 1}, {0x7f, 9}, {0x13, 2}, {0x55, 3}, {0x01, 7}, {0x99, 0}},
			wantKept: true,
		},
		{
			name:     "alternating up and down",
			pairs:    []pair{{1, 0}, {2, 0}, {1, 0}, {2, 0}, {1, 0}, {2, 0}},
			wantKept: true,
		},
		{
			name:  "long counter filling the log",
			pairs: counting(1000, testLayout.Height, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMap(t)
			record(t, m, 5, tt.pairs...)
			store := meta.NewStore()

			res := Extract(m, m.Len(), meta.Mutated, store)

			if tt.wantKept {
				assert.Equal(t, Result{Kept: 1}, res)
				if diff := cmp.Diff(u64s(tt.pairs...), store.New(5)); diff != "" {
					t.Errorf("New(5) (-want +got):\n%s", diff)
				}
			} else {
				assert.Equal(t, Result{Filtered: 1}, res)
				assert.Nil(t, store.New(5))
				assert.Equal(t, 0, store.Len(meta.Mutated))
			}
		})
	}
}

// TestLoopFilterThreshold tests that short sequences are never filtered.
func TestLoopFilterThreshold(t *testing.T) {
	for n := 1; n <= MinLoopSamples; n++ {
		m := newMap(t)
		pairs := counting(10, n, 1)
		record(t, m, 3, pairs...)
		store := meta.NewStore()

		res := Extract(m, m.Len(), meta.Baseline, store)

		assert.Equal(t, 1, res.Kept, "execs=%d", n)
		if diff := cmp.Diff(u64s(pairs...), store.Orig(3)); diff != "" {
			t.Errorf("execs=%d Orig(3) (-want +got):\n%s", n, diff)
		}
	}

	// One more sample and the same counter is a loop.
	m := newMap(t)
	record(t, m, 3, counting(10, MinLoopSamples+1, 1)...)
	res := Extract(m, m.Len(), meta.Baseline, meta.NewStore())
	assert.Equal(t, 1, res.Filtered)
}

// TestScenarioC tests that three identical samples are stored verbatim.
func TestScenarioC(t *testing.T) {
	m := newMap(t)
	record(t, m, 7, pair{1, 2}, pair{1, 2}, pair{1, 2})
	store := meta.NewStore()

	Extract(m, m.Len(), meta.Mutated, store)

	if diff := cmp.Diff(u64s(pair{1, 2}, pair{1, 2}, pair{1, 2}), store.New(7)); diff != "" {
		t.Errorf("New(7) (-want +got):\n%s", diff)
	}
}

// TestBytesNeverFiltered tests that routine comparisons never count as loops.
func TestBytesNeverFiltered(t *testing.T) {
	m := newMap(t)
	var want []cmpval.Values
	for i := range testLayout.RtnHeight() {
		b := []byte{byte('a' + i)}
		m.LogRtn(2, b, b)
		want = append(want, cmpval.FromBytes(b, b))
	}
	store := meta.NewStore()

	res := Extract(m, m.Len(), meta.Mutated, store)

	assert.Equal(t, Result{Kept: 1}, res)
	if diff := cmp.Diff(want, store.New(2)); diff != "" {
		t.Errorf("New(2) (-want +got):\n%s", diff)
	}
}

// TestIsLoopMixedEntries tests that byte entries break the chain without counting.
func TestIsLoopMixedEntries(t *testing.T) {
	b := cmpval.FromBytes([]byte("x"), []byte("y"))
	seq := []cmpval.Values{
		cmpval.FromU64(1, 0), b,
		cmpval.FromU64(2, 0), b,
		cmpval.FromU64(3, 0), b,
	}
	assert.False(t, isLoop(seq, len(seq)))

	all := []cmpval.Values{b, b, b, b, b, b, b, b}
	assert.False(t, isLoop(all, len(all)))

	// Narrow kinds compare through their 64-bit view.
	u8 := []cmpval.Values{
		cmpval.FromU8(1, 0), cmpval.FromU8(2, 0), cmpval.FromU8(3, 0),
		cmpval.FromU8(4, 0), cmpval.FromU8(5, 0),
	}
	assert.True(t, isLoop(u8, len(u8)))
}

// TestUndecodableEntriesSkipped tests that unknown shapes leave no values behind.
func TestUndecodableEntriesSkipped(t *testing.T) {
	m := newMap(t)
	m.SetHeader(4, cmpmap.HeaderFields{Hits: 6, Type: cmpmap.TypeIns, Shape: 5}.Encode())
	store := meta.NewStore()

	res := Extract(m, m.Len(), meta.Baseline, store)

	// Execs is 6 but nothing decodes: no counter can reach 4, the index is kept empty.
	assert.Equal(t, 1, res.Kept)
	assert.Empty(t, store.Orig(4))
	_, ok := store.Header(4)
	assert.True(t, ok)
}

func TestExtractRespectsCount(t *testing.T) {
	m := newMap(t)
	record(t, m, 1, pair{1, 1})
	record(t, m, 9, pair{2, 2})
	store := meta.NewStore()

	Extract(m, 5, meta.Mutated, store)
	assert.Equal(t, []int{1}, store.Indices(meta.Mutated))

	Extract(m, 1000, meta.Mutated, store)
	assert.Equal(t, []int{1, 9}, store.Indices(meta.Mutated))
}

func TestExtractCountsOverflow(t *testing.T) {
	m := newMap(t)
	for range testLayout.Height + 1 {
		m.LogIns(6, cmpmap.Shape32, 0, 7, 7, 0, 0)
	}
	res := Extract(m, m.Len(), meta.Mutated, meta.NewStore())
	assert.Equal(t, Result{Kept: 1, Overflowed: 1}, res)
}

// TestBaselineHeaders tests that headers are snapshot for every non-empty index,
// filtered ones included.
func TestBaselineHeaders(t *testing.T) {
	m := newMap(t)
	record(t, m, 1, counting(0, 8, 1)...)
	record(t, m, 2, pair{4, 4})
	store := meta.NewStore()

	Extract(m, m.Len(), meta.Baseline, store)

	assert.Equal(t, 2, store.HeaderCount())
	h, ok := store.Header(1)
	require.True(t, ok)
	assert.Equal(t, uint32(8), h.Hits())
	assert.Nil(t, store.Orig(1), "filtered index must not be stored")
	assert.Equal(t, []int{2}, store.Indices(meta.Baseline))

	Extract(m, m.Len(), meta.Mutated, store)
	assert.Equal(t, 2, store.HeaderCount(), "mutated pass must not touch headers")
}
