// Package cmpmap implements the comparison trace map shared with instrumented
// targets.
//
// The map is a fixed region written by the instrumentation runtime (AFL++
// cmplog) while the target runs and read by the observer afterwards:
//
//	struct cmp_map {
//	    struct cmp_header   headers[W];     // 8 bytes each
//	    struct cmp_operands log[W][H];      // 32 bytes each
//	};
//
// Each index owns one header and one log row. Integer comparisons fill the row
// with up to H cmp_operands entries; routine comparisons reinterpret the same
// row as up to H/4 cmpfn_operands entries (two 31-byte buffers plus length
// bytes). The byte layout is a wire contract: it is read and written with
// explicit little-endian offsets, never through Go struct layout.
//
// # Usage
//
//	m, _ := cmpmap.Alloc(cmpmap.DefaultLayout())
//	_ = m.Reset()                        // before the run
//	// ... target runs, runtime fills headers and log ...
//	for j := range m.UsableExecutionsFor(idx) {
//	    if v, ok := m.ValuesOf(idx, j); ok {
//	        _ = v
//	    }
//	}
//
// # Performance
//
// Reset touches only the header array (512 KiB for the default layout).
// ValuesOf is allocation-free for integer comparisons; routine comparisons
// allocate one buffer for both operands.
package cmpmap
