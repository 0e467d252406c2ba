// Package evidence persists run records.
//
// Each run produces two artifacts under the output directory:
//
//	<out>/runs/<run_id>.json   full RunRecord, 2-space indented
//	<out>/evidence.jsonl       one compact line per run, appended
//
// The run artifact is written first, atomically (temp file + rename), and
// overwrites any earlier artifact with the same run id. The evidence line is
// appended afterwards and the log is never truncated. There is no rollback:
// if the append fails the run artifact stays on disk.
//
// Appends from concurrent processes are serialized with an exclusive lock
// file (<out>/evidence.jsonl.lock) so lines never interleave.
//
// Digest computes a content hash of a record over canonical JSON
// (sorted keys in UTF-16 order, NFC-normalized strings, no HTML escaping),
// so the same record always hashes the same regardless of field order.
package evidence
