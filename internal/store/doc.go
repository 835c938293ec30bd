// Package store keeps suite reports in SQLite so runs can be compared over
// time.
//
// Two tables make up the schema:
//   - runs: one row per suite run, keyed by run ID, with pass/fail totals
//   - cases: one row per scenario outcome, keyed by (run_id, seq)
//
// Ordering never relies on rowid. Cases are read back by seq ASC, the
// report's logical clock, and runs by started_at DESC, id ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
