// Package observer implements the comparison trace observer used by the
// redqueen stage of the fuzzer.
//
// # Lifecycle
//
// The executor calls the observer around every run of the target:
//
//	obs.SetPass(meta.Baseline)
//	obs.PreExec()            // reset the comparison map
//	// ... run the unmutated input ...
//	obs.PostExec(state, exit) // headers + orig
//
//	obs.SetPass(meta.Mutated)
//	obs.PreExec()
//	// ... run the mutated input ...
//	obs.PostExec(state, exit) // new
//
// The baseline pass rebuilds the header snapshots and the original sequences;
// the mutated pass only rebuilds the new sequences. Nothing else carries over
// from one extraction to the next.
//
// # Loop filter
//
// Comparisons against loop counters produce long runs of consecutive values
// (i < n with i = 0, 1, 2, ...). They are useless for input-to-state
// substitution and would flood the metadata. With more than MinLoopSamples
// recorded executions, an index whose first or second operand steps by +1 or
// -1 on at least executions-LoopTolerance transitions (every transition but
// one) is discarded for the pass.
//
// # Errors
//
// Only PreExec fails, and only when the map has no backing memory. Extraction
// never fails; undecodable entries are skipped.
package observer
