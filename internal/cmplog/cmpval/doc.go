// Package cmpval implements decoded comparison operands.
//
// Every entry recorded in the comparison map decodes to one Values: a pair of
// operands tagged with the width of the comparison that produced them. Integer
// comparisons carry 8, 16, 32, 64 or 128-bit operands, routine comparisons
// (strcmp, memcmp and friends) carry two length-bounded byte buffers.
//
// Only numeric kinds expose a canonical 64-bit pair through U64Pair. The loop
// filter and the redqueen mutators rely on that: byte pairs never take part in
// the arithmetic heuristics.
package cmpval
