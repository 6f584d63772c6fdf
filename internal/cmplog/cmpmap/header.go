package cmpmap

import "strconv"

// Header is one packed cmp_header record.
//
// Layout (LSB first, 64 bits total):
//
//	[hits:24][id:24][shape:5][type:2][attribute:4][overflow:1][reserved:4]
//
// Example: 0x0023_0000_0700_0006 is hits=6, id=7, shape=3 (u32), type=1 (ins).
//
// The layout matches the little-endian C bit-field in the instrumentation
// runtime. It is decoded with explicit masks so it never depends on how any
// compiler packs bit-fields.
type Header uint64

const (
	HitsBits      = 24
	IDBits        = 24
	ShapeBits     = 5
	TypeBits      = 2
	AttributeBits = 4
	OverflowBits  = 1
	ReservedBits  = 4

	hitsShift      = 0
	idShift        = hitsShift + HitsBits
	shapeShift     = idShift + IDBits
	typeShift      = shapeShift + ShapeBits
	attributeShift = typeShift + TypeBits
	overflowShift  = attributeShift + AttributeBits
	reservedShift  = overflowShift + OverflowBits

	// MaxHits is the saturation point of the hits counter.
	MaxHits = 1<<HitsBits - 1

	// MaxID is the largest comparison-site identifier.
	MaxID = 1<<IDBits - 1
)

// Comparison types stored in the 2-bit type field.
const (
	TypeIns uint8 = 1 // integer comparison instruction
	TypeRtn uint8 = 2 // routine comparison (strcmp, memcmp, ...)
)

// Operand shapes: byte width minus one.
const (
	Shape8   uint8 = 0
	Shape16  uint8 = 1
	Shape32  uint8 = 3
	Shape64  uint8 = 7
	Shape128 uint8 = 15
)

// Attribute flags. The field is 4 bits wide.
const (
	AttrEqual   uint8 = 1 << 0
	AttrGreater uint8 = 1 << 1
	AttrLesser  uint8 = 1 << 2
	AttrFloat   uint8 = 1 << 3
)

func field(h Header, shift, bits uint) uint64 {
	return uint64(h) >> shift & (1<<bits - 1)
}

// Hits returns the saturating execution counter.
func (h Header) Hits() uint32 { return uint32(field(h, hitsShift, HitsBits)) }

// ID returns the comparison-site identifier.
func (h Header) ID() uint32 { return uint32(field(h, idShift, IDBits)) }

// Shape returns the operand shape (byte width - 1 for integer comparisons).
func (h Header) Shape() uint8 { return uint8(field(h, shapeShift, ShapeBits)) }

// Type returns TypeIns, TypeRtn or an unrecognized value.
func (h Header) Type() uint8 { return uint8(field(h, typeShift, TypeBits)) }

// Attribute returns the relational flags.
func (h Header) Attribute() uint8 { return uint8(field(h, attributeShift, AttributeBits)) }

// Overflow reports whether hits went past the log depth of the slot.
func (h Header) Overflow() bool { return field(h, overflowShift, OverflowBits) != 0 }

// Reserved returns the unused trailing bits, kept for round-tripping.
func (h Header) Reserved() uint8 { return uint8(field(h, reservedShift, ReservedBits)) }

// HeaderFields is the unpacked form of a Header.
type HeaderFields struct {
	Hits      uint32
	ID        uint32
	Shape     uint8
	Type      uint8
	Attribute uint8
	Overflow  bool
	Reserved  uint8
}

// Encode packs f. Values wider than their field are truncated, the same way
// the C bit-field assignment in the instrumentation runtime truncates them.
func (f HeaderFields) Encode() Header {
	var overflow uint64
	if f.Overflow {
		overflow = 1
	}
	return Header(uint64(f.Hits)&(1<<HitsBits-1)<<hitsShift |
		uint64(f.ID)&(1<<IDBits-1)<<idShift |
		uint64(f.Shape)&(1<<ShapeBits-1)<<shapeShift |
		uint64(f.Type)&(1<<TypeBits-1)<<typeShift |
		uint64(f.Attribute)&(1<<AttributeBits-1)<<attributeShift |
		overflow<<overflowShift |
		uint64(f.Reserved)&(1<<ReservedBits-1)<<reservedShift)
}

// Fields unpacks h.
func (h Header) Fields() HeaderFields {
	return HeaderFields{
		Hits:      h.Hits(),
		ID:        h.ID(),
		Shape:     h.Shape(),
		Type:      h.Type(),
		Attribute: h.Attribute(),
		Overflow:  h.Overflow(),
		Reserved:  h.Reserved(),
	}
}

// withHits returns h with the hits field replaced.
func (h Header) withHits(hits uint32) Header {
	const mask = Header(1<<HitsBits-1) << hitsShift
	return h&^mask | Header(hits&MaxHits)<<hitsShift
}

// withOverflow returns h with the overflow bit set.
func (h Header) withOverflow() Header {
	return h | 1<<overflowShift
}

// String returns a compact debug form, e.g. "id=7 type=1 shape=3 hits=12".
// Only used for reporting, never on the extraction path.
func (h Header) String() string {
	s := "id=" + strconv.FormatUint(uint64(h.ID()), 10) +
		" type=" + strconv.FormatUint(uint64(h.Type()), 10) +
		" shape=" + strconv.FormatUint(uint64(h.Shape()), 10) +
		" attr=" + strconv.FormatUint(uint64(h.Attribute()), 10) +
		" hits=" + strconv.FormatUint(uint64(h.Hits()), 10)
	if h.Overflow() {
		s += " overflow"
	}
	return s
}
