// Package report records the outcome of named scenarios and guarantees that
// each scenario's cleanup runs exactly once.
//
// A scenario starts a Case with the cleanup that releases whatever it
// allocates, defers Close, and finishes with Pass or Fail:
//
//	tc := rc.Start("file_load_basic", fixture.Cleanup)
//	defer tc.Close()
//
//	if err := load(); err != nil {
//		return tc.Fail(err.Error())
//	}
//	return tc.Pass()
//
// Pass and Fail run the cleanup before recording the outcome. Close is the
// guard for every other exit: if the scenario returned early or panicked
// without an outcome, Close runs the cleanup and records a failure.
//
// Cases are numbered with a logical clock, never wall time, so two runs of
// the same suite produce identical reports apart from the run ID.
package report
