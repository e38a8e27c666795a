// Package record assembles the persisted session record from parser,
// classifier, and scorer output. Building never fails: files whose extraction
// blew up get a minimal fallback record flagged for review instead.
package record
