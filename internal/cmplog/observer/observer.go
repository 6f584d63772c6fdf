package observer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/cmplog/meta"
	"github.com/kolkov/cmplog/internal/logging"
)

// ExitKind is how the target execution ended, as reported by the executor.
type ExitKind uint8

const (
	ExitOk ExitKind = iota
	ExitCrash
	ExitTimeout
	ExitOom
)

var exitNames = [...]string{"ok", "crash", "timeout", "oom"}

func (k ExitKind) String() string {
	if int(k) < len(exitNames) {
		return exitNames[k]
	}
	return "unknown"
}

// Options configures an Observer beyond the mandatory name and map.
type Options struct {
	// AddMeta enables extraction into the fuzzing state after each run.
	AddMeta bool

	// Pass is the initial pass mode. Default: meta.Mutated.
	Pass meta.Pass

	// Size, when non-nil, overrides the number of indices examined. It is read
	// on every extraction, so the owner may change it between runs.
	Size *int

	// Logger receives reset failures and extraction summaries. Default: nop.
	Logger *zap.Logger

	// Stats receives extraction counters. Nil disables them.
	Stats *Stats
}

// Observer resets the comparison map before every execution and turns the
// recorded trace into redqueen metadata after it.
//
// One Observer is reused for the baseline and the mutated run of an
// iteration; the executor flips the pass with SetPass in between.
//
// Thread Safety: NOT safe for concurrent use.
type Observer struct {
	name    string
	cmpMap  *cmpmap.Map
	size    *int
	addMeta bool
	pass    meta.Pass
	logger  *zap.Logger
	stats   *Stats
}

// New creates an observer over m examining every index, in the mutated pass.
func New(name string, m *cmpmap.Map, addMeta bool) *Observer {
	return NewWithOptions(name, m, Options{AddMeta: addMeta})
}

// WithSize creates an observer whose usable index count is read from size.
func WithSize(name string, m *cmpmap.Map, addMeta bool, pass meta.Pass, size *int) *Observer {
	return NewWithOptions(name, m, Options{AddMeta: addMeta, Pass: pass, Size: size})
}

// NewWithOptions creates an observer with explicit options.
func NewWithOptions(name string, m *cmpmap.Map, opts Options) *Observer {
	logger := logging.OrNop(opts.Logger)
	return &Observer{
		name:    name,
		cmpMap:  m,
		size:    opts.Size,
		addMeta: opts.AddMeta,
		pass:    opts.Pass,
		logger:  logger.With(zap.String("observer", name)),
		stats:   opts.Stats,
	}
}

// Name returns the observer name.
func (o *Observer) Name() string { return o.name }

// Map returns the observed comparison map.
func (o *Observer) Map() *cmpmap.Map { return o.cmpMap }

// Pass returns the current pass mode.
func (o *Observer) Pass() meta.Pass { return o.pass }

// SetPass selects the pass the next extraction writes.
func (o *Observer) SetPass(p meta.Pass) { o.pass = p }

// SetOriginal selects the baseline pass when v is true, the mutated one otherwise.
func (o *Observer) SetOriginal(v bool) {
	if v {
		o.pass = meta.Baseline
	} else {
		o.pass = meta.Mutated
	}
}

// AddMeta reports whether extraction runs after each execution.
func (o *Observer) AddMeta() bool { return o.addMeta }

// UsableCount returns how many indices an extraction examines: the size
// override when set, else the whole map. The override is clamped to the map.
func (o *Observer) UsableCount() int {
	n := o.cmpMap.Len()
	if o.size == nil {
		return n
	}
	return max(0, min(*o.size, n))
}

// PreExec clears the map before the target runs.
//
// Running without a clean map would attribute stale comparisons to the new
// input, so a failure here aborts the execution. The error wraps
// cmpmap.ErrUnavailable.
func (o *Observer) PreExec() error {
	if err := o.cmpMap.Reset(); err != nil {
		o.logger.Warn("comparison map reset failed", zap.Error(err))
		return fmt.Errorf("observer %q: pre-exec: %w", o.name, err)
	}
	return nil
}

// PostExec extracts the recorded comparisons into the Store held by st when
// AddMeta is set. It never fails: decoding problems drop values, nothing more.
func (o *Observer) PostExec(st meta.State, exit ExitKind) error {
	if !o.addMeta {
		return nil
	}
	store := meta.StoreOf(st)
	res := Extract(o.cmpMap, o.UsableCount(), o.pass, store)
	o.stats.observe(o.pass, res)

	if ce := o.logger.Check(zap.DebugLevel, "comparison metadata extracted"); ce != nil {
		ce.Write(
			zap.Stringer("pass", o.pass),
			zap.Stringer("exit", exit),
			zap.Int("kept", res.Kept),
			zap.Int("filtered", res.Filtered),
			zap.Int("overflowed", res.Overflowed),
		)
	}
	return nil
}
