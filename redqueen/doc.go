// Package redqueen is the public API of the comparison trace engine.
//
// Executors use it to create the comparison map and to drive an Observer
// around every target run; mutation engines use it to read the collected
// metadata through View.
//
// # Quick Start
//
//	m, seg, err := redqueen.CreateMap(redqueen.DefaultLayout())
//	if err != nil {
//		return err
//	}
//	defer seg.Remove()
//	cmd.Env = append(os.Environ(), seg.Env()) // target attaches the map
//
//	obs := redqueen.NewObserver("cmplog", m, true)
//	var state redqueen.Session
//
//	obs.SetPass(redqueen.Baseline)
//	if err := obs.PreExec(); err != nil {
//		return err
//	}
//	// run the unmutated input
//	_ = obs.PostExec(&state, redqueen.ExitOk)
//
//	obs.SetPass(redqueen.Mutated)
//	// PreExec, run the mutated input, PostExec
//
//	var view redqueen.View = state.CmpValues()
//	for _, idx := range view.Indices(redqueen.Mutated) {
//		_ = view.Orig(idx) // baseline operands
//		_ = view.New(idx)  // mutated operands
//	}
//
// # Version Information
//
// See [Version] and [GetInfo].
package redqueen
