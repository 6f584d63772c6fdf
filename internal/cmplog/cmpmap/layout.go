package cmpmap

import (
	"fmt"
	"math/bits"
)

// Record sizes of the shared region, in bytes.
const (
	HeaderSize     = 8  // cmp_header
	OperandsSize   = 32 // cmp_operands: v0, v1, v0_128, v1_128
	FnOperandsSize = 64 // cmpfn_operands: v0[31], v0_len, v1[31], v1_len

	// FnValueMax is the content capacity of one routine operand buffer.
	FnValueMax = 31

	// fnLenMask strips the high bit the runtime may set on length bytes.
	fnLenMask = 0x7f
)

// Defaults from cmplog.h (CMP_MAP_W, CMP_MAP_H).
const (
	DefaultWidth  = 65536
	DefaultHeight = 32
)

// Layout describes the geometry of a comparison map. Both values must match
// the instrumentation runtime that writes the map.
type Layout struct {
	Width  int // number of indices (CMP_MAP_W)
	Height int // log depth per index (CMP_MAP_H)
}

// DefaultLayout returns the stock AFL++ geometry.
func DefaultLayout() Layout {
	return Layout{Width: DefaultWidth, Height: DefaultHeight}
}

// Validate checks that the layout is representable by the runtime.
func (l Layout) Validate() error {
	if l.Width <= 0 || bits.OnesCount(uint(l.Width)) != 1 {
		return fmt.Errorf("cmpmap: width %d is not a positive power of two", l.Width)
	}
	if l.Height <= 0 || l.Height%4 != 0 {
		return fmt.Errorf("cmpmap: height %d is not a positive multiple of 4", l.Height)
	}
	return nil
}

// RtnHeight is the routine log depth (CMP_MAP_RTN_H). Routine entries are
// twice the size of operand entries and share the same log row.
func (l Layout) RtnHeight() int {
	return l.Height / 4
}

// Size returns the exact byte size of the shared region.
func (l Layout) Size() int {
	return l.Width*HeaderSize + l.Width*l.Height*OperandsSize
}

func (l Layout) headerOffset(idx int) int {
	return idx * HeaderSize
}

func (l Layout) rowOffset(idx int) int {
	return l.Width*HeaderSize + idx*l.Height*OperandsSize
}

func (l Layout) insOffset(idx, execution int) int {
	return l.rowOffset(idx) + execution*OperandsSize
}

func (l Layout) rtnOffset(idx, execution int) int {
	return l.rowOffset(idx) + execution*FnOperandsSize
}
