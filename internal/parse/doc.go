// Package parse recovers structured session facts from inconsistently named
// recording files.
//
// Filename patterns from the registry are tried in order with first-match-wins
// semantics; when none match, coach and student are inferred from the trailing
// folder path segments; when that fails too the file is still carried forward
// with sentinel values. Parsing is best effort by design: malformed names
// lower the downstream confidence score instead of producing errors.
package parse
