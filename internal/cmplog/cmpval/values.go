package cmpval

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/holiman/uint256"
)

// Kind tags the variant held by a Values.
type Kind uint8

const (
	// Invalid is the zero Kind. A zero Values carries no operands.
	Invalid Kind = iota
	U8
	U16
	U32
	U64
	U128
	Bytes
)

var kindNames = [...]string{
	Invalid: "invalid",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	Bytes:   "bytes",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Numeric reports whether the kind carries integer operands.
func (k Kind) Numeric() bool {
	return k >= U8 && k <= U128
}

// Values holds the two operands of one recorded comparison.
//
// Layout: numeric operands live in v0/v1 (low 64 bits) and h0/h1 (high 64 bits,
// U128 only). Byte operands live in b0/b1. Narrow kinds are stored already
// truncated to their width, so U64Pair never leaks stale upper bits.
type Values struct {
	kind   Kind
	v0, v1 uint64
	h0, h1 uint64
	b0, b1 []byte
}

// FromU8 builds an 8-bit pair.
func FromU8(a, b uint8) Values { return Values{kind: U8, v0: uint64(a), v1: uint64(b)} }

// FromU16 builds a 16-bit pair.
func FromU16(a, b uint16) Values { return Values{kind: U16, v0: uint64(a), v1: uint64(b)} }

// FromU32 builds a 32-bit pair.
func FromU32(a, b uint32) Values { return Values{kind: U32, v0: uint64(a), v1: uint64(b)} }

// FromU64 builds a 64-bit pair.
func FromU64(a, b uint64) Values { return Values{kind: U64, v0: a, v1: b} }

// FromU128 builds a 128-bit pair from its 64-bit halves.
func FromU128(aLo, aHi, bLo, bHi uint64) Values {
	return Values{kind: U128, v0: aLo, v1: bLo, h0: aHi, h1: bHi}
}

// FromBytes builds a routine comparison pair. The slices are retained, not copied.
func FromBytes(a, b []byte) Values { return Values{kind: Bytes, b0: a, b1: b} }

// Kind returns the variant tag.
func (v Values) Kind() Kind { return v.kind }

// Valid reports whether v carries operands.
func (v Values) Valid() bool { return v.kind != Invalid }

// Width returns the operand width in bytes. For Bytes it is the length of
// the longer operand.
func (v Values) Width() int {
	switch v.kind {
	case U8:
		return 1
	case U16:
		return 2
	case U32:
		return 4
	case U64:
		return 8
	case U128:
		return 16
	case Bytes:
		return max(len(v.b0), len(v.b1))
	}
	return 0
}

// U64Pair returns the canonical 64-bit operand pair used by value heuristics.
//
// U128 exposes its low halves. Bytes and Invalid return ok == false.
func (v Values) U64Pair() (a, b uint64, ok bool) {
	if !v.kind.Numeric() {
		return 0, 0, false
	}
	return v.v0, v.v1, true
}

// U128Pair returns both operands zero-extended to full integers.
// It succeeds for every numeric kind.
func (v Values) U128Pair() (a, b uint256.Int, ok bool) {
	if !v.kind.Numeric() {
		return a, b, false
	}
	a = uint256.Int{v.v0, v.h0, 0, 0}
	b = uint256.Int{v.v1, v.h1, 0, 0}
	return a, b, true
}

// BytesPair returns the routine operands. The slices must not be modified.
func (v Values) BytesPair() (a, b []byte, ok bool) {
	if v.kind != Bytes {
		return nil, nil, false
	}
	return v.b0, v.b1, true
}

// Equal reports whether v and o hold the same kind and operands.
func (v Values) Equal(o Values) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == Bytes {
		return bytes.Equal(v.b0, o.b0) && bytes.Equal(v.b1, o.b1)
	}
	return v.v0 == o.v0 && v.v1 == o.v1 && v.h0 == o.h0 && v.h1 == o.h1
}

// String formats v as "kind(a, b)". Integers print in hex, byte operands
// as hex strings.
func (v Values) String() string {
	switch v.kind {
	case Invalid:
		return "invalid"
	case Bytes:
		return "bytes(" + hex.EncodeToString(v.b0) + ", " + hex.EncodeToString(v.b1) + ")"
	case U128:
		a, b, _ := v.U128Pair()
		return "u128(" + a.Hex() + ", " + b.Hex() + ")"
	}
	return v.kind.String() + "(0x" + strconv.FormatUint(v.v0, 16) + ", 0x" + strconv.FormatUint(v.v1, 16) + ")"
}
