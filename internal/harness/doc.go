// Package harness runs the file-loading scenarios against the binder and
// reports each outcome.
//
// Every scenario owns a result slot and a Fixture describing how to free
// it. The fixture's Cleanup is handed to report.Report.Start, so the slot
// is released exactly once whichever way the scenario ends: after a
// successful load, after an expected failure, or while unwinding a panic.
//
// Scenarios share one binder.Config. The suite runs the scenarios that
// should load cleanly first, then the ones that provoke binder errors. If
// the configured log level is above info it removes the log callback
// before the noisy ones, so expected failures do not flood the output.
//
// The documents the scenarios load are compiled into the binary from the
// fixtures directory. The bad-path scenario uses BadPath, a location that
// must never exist.
package harness
