package cmpmap

// This file is the writer side of the map: what the instrumentation runtime
// does on every hooked comparison. Native targets get this from the C runtime;
// in-process Go targets and tests call it directly.

// Slot returns the index a comparison site lands in.
func (m *Map) Slot(id uint32) int {
	return int(id) & (m.layout.Width - 1)
}

// begin advances the header of idx for one more recorded comparison of typ
// and returns the log position to write plus the updated header.
func (m *Map) begin(idx int, id uint32, typ, shape uint8) (int, Header) {
	h := m.Header(idx)
	var pos uint32
	if h.Type() != typ {
		// A different comparison kind took over the slot: start fresh.
		h = HeaderFields{Hits: 1, ID: id, Shape: shape, Type: typ}.Encode()
	} else {
		pos = h.Hits()
		if pos < MaxHits {
			h = h.withHits(pos + 1)
		}
		if h.Shape() < shape {
			f := h.Fields()
			f.Shape = shape
			h = f.Encode()
		}
	}
	depth := uint32(m.depth(typ))
	if h.Hits() > depth {
		h = h.withOverflow()
	}
	return int(pos % depth), h
}

// LogIns records one integer comparison for site id and returns its index.
// hi0 and hi1 are the upper halves of 128-bit operands and are ignored by the
// decoder for narrower shapes. Recording on an unmapped map is a no-op.
func (m *Map) LogIns(id uint32, shape, attr uint8, v0, v1, hi0, hi1 uint64) int {
	idx := m.Slot(id)
	if !m.inRange(idx) {
		return idx
	}
	pos, h := m.begin(idx, id, TypeIns, shape)
	f := h.Fields()
	f.Attribute = attr
	m.SetHeader(idx, f.Encode())

	e := m.buf[m.layout.insOffset(idx, pos):][:OperandsSize]
	le.PutUint64(e[0:], v0)
	le.PutUint64(e[8:], v1)
	le.PutUint64(e[16:], hi0)
	le.PutUint64(e[24:], hi1)
	return idx
}

// LogRtn records one routine comparison for site id and returns its index.
// Operands longer than FnValueMax are truncated.
func (m *Map) LogRtn(id uint32, b0, b1 []byte) int {
	idx := m.Slot(id)
	if !m.inRange(idx) {
		return idx
	}
	b0 = b0[:min(len(b0), FnValueMax)]
	b1 = b1[:min(len(b1), FnValueMax)]
	shape := uint8(max(len(b0), len(b1), 1) - 1)

	pos, h := m.begin(idx, id, TypeRtn, shape)
	m.SetHeader(idx, h)

	e := m.buf[m.layout.rtnOffset(idx, pos):][:FnOperandsSize]
	clear(e)
	copy(e, b0)
	e[FnValueMax] = 0x80 | uint8(len(b0))
	copy(e[FnValueMax+1:], b1)
	e[2*FnValueMax+1] = 0x80 | uint8(len(b1))
	return idx
}
