package cmpmap

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kolkov/cmplog/internal/cmplog/cmpval"
)

// ErrUnavailable is returned when the shared region backing a Map is not
// mapped. It is the only error the comparison map surfaces.
var ErrUnavailable = errors.New("cmpmap: shared trace buffer unavailable")

var le = binary.LittleEndian

// Map is a typed view over the comparison trace region.
//
// The Map never owns its bytes: they belong to a shared memory segment or to
// whoever called Alloc. A Map without bytes is "unmapped"; reads on it
// return nothing and Reset fails with ErrUnavailable.
//
// Thread Safety: NOT safe for concurrent use. The executor guarantees the
// instrumented target has finished writing before the observer reads.
type Map struct {
	buf    []byte
	layout Layout
}

// New returns an unmapped view with the given geometry. Bind it before use.
func New(layout Layout) (*Map, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Map{layout: layout}, nil
}

// FromBytes returns a view over buf.
func FromBytes(buf []byte, layout Layout) (*Map, error) {
	m, err := New(layout)
	if err != nil {
		return nil, err
	}
	if err := m.Bind(buf); err != nil {
		return nil, err
	}
	return m, nil
}

// Alloc returns a view over freshly allocated heap memory. Used by in-process
// targets and tests.
func Alloc(layout Layout) (*Map, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Map{buf: make([]byte, layout.Size()), layout: layout}, nil
}

// Bind attaches the view to buf. buf must hold at least Layout().Size() bytes;
// any tail beyond that is ignored.
func (m *Map) Bind(buf []byte) error {
	if len(buf) < m.layout.Size() {
		return fmt.Errorf("cmpmap: region is %d bytes, layout needs %d", len(buf), m.layout.Size())
	}
	m.buf = buf[:m.layout.Size():m.layout.Size()]
	return nil
}

// Unbind detaches the view. Call it before the backing memory goes away.
func (m *Map) Unbind() {
	m.buf = nil
}

// Mapped reports whether the view has backing memory.
func (m *Map) Mapped() bool {
	return m.buf != nil
}

// Layout returns the map geometry.
func (m *Map) Layout() Layout {
	return m.layout
}

// Len returns the number of indices.
func (m *Map) Len() int {
	return m.layout.Width
}

func (m *Map) inRange(idx int) bool {
	return m.buf != nil && idx >= 0 && idx < m.layout.Width
}

// Header returns the header of idx, or zero when idx is out of range or the
// map is unmapped.
func (m *Map) Header(idx int) Header {
	if !m.inRange(idx) {
		return 0
	}
	return Header(le.Uint64(m.buf[m.layout.headerOffset(idx):]))
}

// SetHeader overwrites the header of idx. Out-of-range writes are dropped.
func (m *Map) SetHeader(idx int, h Header) {
	if !m.inRange(idx) {
		return
	}
	le.PutUint64(m.buf[m.layout.headerOffset(idx):], uint64(h))
}

// depth returns the log capacity for a comparison type, 0 if unrecognized.
func (m *Map) depth(typ uint8) int {
	switch typ {
	case TypeIns:
		return m.layout.Height
	case TypeRtn:
		return m.layout.RtnHeight()
	}
	return 0
}

// UsableExecutionsFor returns how many log entries of idx hold valid data.
//
// The result never exceeds the log depth of the slot, whatever hits says:
// executions past the depth are only reported through the overflow flag.
// Unrecognized comparison types have no usable entries.
func (m *Map) UsableExecutionsFor(idx int) int {
	h := m.Header(idx)
	return min(int(h.Hits()), m.depth(h.Type()))
}

// ValuesOf decodes log entry execution of idx.
//
// It returns false when execution is outside the usable range or the header
// encodes a shape or type this decoder does not know. Malformed data never
// panics: a mismatched runtime degrades to missing values.
func (m *Map) ValuesOf(idx, execution int) (cmpval.Values, bool) {
	if execution < 0 || execution >= m.UsableExecutionsFor(idx) {
		return cmpval.Values{}, false
	}
	h := m.Header(idx)
	if h.Type() == TypeRtn {
		return m.rtnValues(idx, execution), true
	}
	return m.insValues(idx, execution, h.Shape())
}

func (m *Map) insValues(idx, execution int, shape uint8) (cmpval.Values, bool) {
	e := m.buf[m.layout.insOffset(idx, execution):][:OperandsSize]
	v0 := le.Uint64(e[0:])
	v1 := le.Uint64(e[8:])
	switch shape {
	case Shape8:
		return cmpval.FromU8(uint8(v0), uint8(v1)), true
	case Shape16:
		return cmpval.FromU16(uint16(v0), uint16(v1)), true
	case Shape32:
		return cmpval.FromU32(uint32(v0), uint32(v1)), true
	case Shape64:
		return cmpval.FromU64(v0, v1), true
	case Shape128:
		return cmpval.FromU128(v0, le.Uint64(e[16:]), v1, le.Uint64(e[24:])), true
	}
	return cmpval.Values{}, false
}

func (m *Map) rtnValues(idx, execution int) cmpval.Values {
	e := m.buf[m.layout.rtnOffset(idx, execution):][:FnOperandsSize]
	n0 := min(int(e[FnValueMax]&fnLenMask), FnValueMax)
	n1 := min(int(e[2*FnValueMax+1]&fnLenMask), FnValueMax)

	// Copy out: the region is rewritten by the next execution.
	b := make([]byte, n0+n1)
	copy(b, e[:n0])
	copy(b[n0:], e[FnValueMax+1:FnValueMax+1+n1])
	return cmpval.FromBytes(b[:n0:n0], b[n0:])
}

// Reset prepares the map for the next execution.
//
// Only headers are cleared. A log entry is dead once the hits of its index
// is zero.
func (m *Map) Reset() error {
	if m.buf == nil {
		return ErrUnavailable
	}
	clear(m.buf[:m.layout.Width*HeaderSize])
	return nil
}
