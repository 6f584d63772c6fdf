package observer

import (
	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
	"github.com/kolkov/cmplog/internal/cmplog/meta"
)

// Loop filter constants, as in the AFL++ redqueen heuristic.
const (
	// MinLoopSamples is the sample count at or below which the loop filter is
	// not applied.
	MinLoopSamples = 4

	// LoopTolerance is subtracted from the sample count to get the number of
	// monotonic transitions that marks a loop. It absorbs one break, such as a
	// ring that wrapped: 8 9 10 3 4 5 6 7.
	LoopTolerance = 2
)

// Result summarizes one extraction.
type Result struct {
	Kept       int // indices stored for the pass
	Filtered   int // indices discarded as loop counters
	Overflowed int // non-empty indices whose log overflowed
}

// Extract walks indices [0, count) of m and stores every non-loop comparison
// sequence in store under pass p.
//
// Algorithm:
//  1. store.Begin(p) clears the half of the store owned by p
//  2. Indices with no usable execution are skipped
//  3. Baseline snapshots the header of every non-empty index
//  4. The sequence is decoded; undecodable entries are left out
//  5. With more than MinLoopSamples executions, a monotonic sequence is
//     discarded (see isLoop)
//  6. The sequence replaces whatever p held for the index
func Extract(m *cmpmap.Map, count int, p meta.Pass, store *meta.Store) Result {
	var res Result
	store.Begin(p)

	for i := range min(count, m.Len()) {
		execs := m.UsableExecutionsFor(i)
		if execs == 0 {
			continue
		}

		h := m.Header(i)
		if p == meta.Baseline {
			store.SetHeader(i, h)
		}
		if h.Overflow() {
			res.Overflowed++
		}

		seq := store.Buffer(execs)
		for j := range execs {
			if v, ok := m.ValuesOf(i, j); ok {
				seq = append(seq, v)
			}
		}

		if execs > MinLoopSamples && isLoop(seq, execs) {
			store.Release(seq)
			res.Filtered++
			continue
		}

		store.Put(p, i, seq)
		res.Kept++
	}
	return res
}

// isLoop reports whether seq looks like it was produced by a loop counter.
//
// It counts +1 and -1 steps between consecutive entries, separately for each
// operand, with uint64 wraparound so a counter crossing zero still counts.
// Only pairs of numeric entries are compared; a byte entry breaks the chain
// without counting. If any of the four counters reaches execs-LoopTolerance
// the sequence is a loop.
//
// execs is the usable execution count, not len(seq): undecodable entries make
// a loop harder to prove, never easier.
func isLoop(seq []cmpval.Values, execs int) bool {
	var incV0, incV1, decV0, decV1 int

	for j := 1; j < len(seq); j++ {
		l0, l1, ok := seq[j-1].U64Pair()
		if !ok {
			continue
		}
		v0, v1, ok := seq[j].U64Pair()
		if !ok {
			continue
		}
		if l0+1 == v0 {
			incV0++
		}
		if l1+1 == v1 {
			incV1++
		}
		if l0-1 == v0 {
			decV0++
		}
		if l1-1 == v1 {
			decV1++
		}
	}

	limit := execs - LoopTolerance
	return incV0 >= limit || incV1 >= limit || decV0 >= limit || decV1 >= limit
}
