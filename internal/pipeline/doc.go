// Package pipeline orchestrates a full indexing run: registry load, drive tree
// walk, per-file record building, batched catalog upserts, and per-run
// reporting. Runs are serialized per data directory with a file lock.
package pipeline
