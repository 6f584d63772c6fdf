package redqueen

import (
	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
	"github.com/kolkov/cmplog/internal/cmplog/meta"
	"github.com/kolkov/cmplog/internal/cmplog/observer"
	"github.com/kolkov/cmplog/internal/cmplog/shmem"
)

type (
	// Observer resets the map before a run and extracts metadata after it.
	Observer = observer.Observer
	// Options configures NewObserverWithOptions.
	Options = observer.Options
	// Stats exports extraction counters to Prometheus.
	Stats = observer.Stats
	// ExitKind is how a target execution ended.
	ExitKind = observer.ExitKind

	// Map is the comparison trace map shared with the target.
	Map = cmpmap.Map
	// Layout is the map geometry.
	Layout = cmpmap.Layout
	// Header is one packed comparison header.
	Header = cmpmap.Header
	// Segment is the shared memory segment backing a Map.
	Segment = shmem.Segment

	// Values is one decoded comparison operand pair.
	Values = cmpval.Values

	// Store accumulates comparison metadata for a session.
	Store = meta.Store
	// View is the read-only face of a Store.
	View = meta.View
	// State is the part of the fuzzing state holding the Store.
	State = meta.State
	// Session is the minimal State.
	Session = meta.Session
	// Pass selects the baseline or mutated half of the Store.
	Pass = meta.Pass
)

const (
	Baseline = meta.Baseline
	Mutated  = meta.Mutated

	ExitOk      = observer.ExitOk
	ExitCrash   = observer.ExitCrash
	ExitTimeout = observer.ExitTimeout
	ExitOom     = observer.ExitOom
)

// ErrUnavailable is returned by PreExec when the map has no backing memory.
var ErrUnavailable = cmpmap.ErrUnavailable

// NewObserver creates an observer examining every index of m.
func NewObserver(name string, m *Map, addMeta bool) *Observer {
	return observer.New(name, m, addMeta)
}

// NewObserverWithSize creates an observer examining the first *size indices.
func NewObserverWithSize(name string, m *Map, addMeta bool, pass Pass, size *int) *Observer {
	return observer.WithSize(name, m, addMeta, pass, size)
}

// NewObserverWithOptions creates an observer with explicit options.
func NewObserverWithOptions(name string, m *Map, opts Options) *Observer {
	return observer.NewWithOptions(name, m, opts)
}

// NewStore returns an empty metadata store.
func NewStore() *Store {
	return meta.NewStore()
}

// DefaultLayout returns the stock AFL++ map geometry.
func DefaultLayout() Layout {
	return cmpmap.DefaultLayout()
}

// NewMap returns a heap-backed map, for in-process targets.
func NewMap(layout Layout) (*Map, error) {
	return cmpmap.Alloc(layout)
}

// CreateMap creates a shared memory segment and binds a map over it.
// Pass seg.Env() to the target.
func CreateMap(layout Layout) (*Map, *Segment, error) {
	return shmem.CreateMap(layout)
}

// AttachMap binds a map over an existing shared memory segment.
func AttachMap(id int, layout Layout) (*Map, *Segment, error) {
	return shmem.AttachMap(id, layout)
}
