// Package meta holds the redqueen comparison metadata accumulated across
// executions of one fuzzing session.
//
// A Store keeps three index-keyed mappings:
//   - headers: header snapshots from the baseline pass
//   - orig:    decoded comparison sequences from the baseline pass
//   - new:     decoded comparison sequences from the mutated pass
//
// The mutation engine diffs new against orig and headers per index to find
// byte substitutions that flip a comparison.
package meta

import (
	"maps"
	"slices"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
)

// Pass selects which half of the Store an extraction writes.
type Pass uint8

const (
	// Mutated is a run of a candidate input. It only touches new.
	Mutated Pass = iota
	// Baseline is a run of the unmutated input. It owns headers and orig.
	Baseline
)

// String returns "baseline" or "mutated".
func (p Pass) String() string {
	if p == Baseline {
		return "baseline"
	}
	return "mutated"
}

// View is the read-only face of a Store handed to mutation engines.
//
// Slices returned by Orig and New must not be modified and stay valid until
// the next Begin of the same pass.
type View interface {
	Header(idx int) (cmpmap.Header, bool)
	Orig(idx int) []cmpval.Values
	New(idx int) []cmpval.Values
	Indices(p Pass) []int
	Len(p Pass) int
	HeaderCount() int
}

// Store accumulates comparison metadata. It is created once per session.
//
// Thread Safety: NOT safe for concurrent use. It is written only by the
// observer's post-exec step and read between executions.
type Store struct {
	headers map[int]cmpmap.Header
	orig    map[int][]cmpval.Values
	new     map[int][]cmpval.Values

	// spare holds sequences released by Begin, reused by Buffer so that
	// steady-state extraction stops allocating slice headers.
	spare [][]cmpval.Values
}

var _ View = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		headers: make(map[int]cmpmap.Header),
		orig:    make(map[int][]cmpval.Values),
		new:     make(map[int][]cmpval.Values),
	}
}

func (s *Store) values(p Pass) map[int][]cmpval.Values {
	if p == Baseline {
		return s.orig
	}
	return s.new
}

// Begin starts an extraction for pass p.
//
// Baseline clears headers and orig, Mutated clears only new. Nothing else is
// touched: the baseline ground truth survives any number of mutated passes.
func (s *Store) Begin(p Pass) {
	if p == Baseline {
		clear(s.headers)
	}
	m := s.values(p)
	for _, seq := range m {
		s.Release(seq)
	}
	clear(m)
}

// SetHeader records the baseline header snapshot of idx.
func (s *Store) SetHeader(idx int, h cmpmap.Header) {
	s.headers[idx] = h
}

// Put stores seq as the sequence of idx for pass p, replacing any previous one.
func (s *Store) Put(p Pass, idx int, seq []cmpval.Values) {
	m := s.values(p)
	if old, ok := m[idx]; ok {
		s.Release(old)
	}
	m[idx] = seq
}

// Buffer returns an empty sequence with room for at least n values, recycled
// when possible.
func (s *Store) Buffer(n int) []cmpval.Values {
	for len(s.spare) > 0 {
		last := len(s.spare) - 1
		seq := s.spare[last]
		s.spare[last] = nil
		s.spare = s.spare[:last]
		if cap(seq) >= n {
			return seq[:0]
		}
	}
	return make([]cmpval.Values, 0, n)
}

// Release hands seq back for reuse. The caller must not use it afterwards.
func (s *Store) Release(seq []cmpval.Values) {
	if cap(seq) == 0 {
		return
	}
	clear(seq[:cap(seq)]) // drop byte operands so they can be collected
	s.spare = append(s.spare, seq[:0])
}

// Header returns the baseline header snapshot of idx.
func (s *Store) Header(idx int) (cmpmap.Header, bool) {
	h, ok := s.headers[idx]
	return h, ok
}

// Orig returns the baseline sequence of idx, nil if none.
func (s *Store) Orig(idx int) []cmpval.Values {
	return s.orig[idx]
}

// New returns the mutated sequence of idx, nil if none.
func (s *Store) New(idx int) []cmpval.Values {
	return s.new[idx]
}

// Indices returns the indices holding a sequence for pass p, ascending.
func (s *Store) Indices(p Pass) []int {
	return slices.Sorted(maps.Keys(s.values(p)))
}

// Len returns how many indices hold a sequence for pass p.
func (s *Store) Len(p Pass) int {
	return len(s.values(p))
}

// HeaderCount returns how many header snapshots the last baseline took.
func (s *Store) HeaderCount() int {
	return len(s.headers)
}
