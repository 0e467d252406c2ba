// Package store provides an optional SQLite index of persisted runs.
//
// The JSON artifacts under <out>/runs and the evidence log remain the
// source of truth; the index mirrors them so past runs can be filtered
// without scanning files.
//
// # Tables
//
//   - runs: one row per run id, with artifact path and content digest
//   - run_steps: one row per step event, keyed by (run_id, position)
//
// Indexing a run id again replaces its row and steps, matching the
// overwrite semantics of the run artifact. Listing order is insertion
// order (seq), never wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
