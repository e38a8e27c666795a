// Package main hosts the driveindex CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the indexing
// pipeline: full drive scans, offline filename parsing previews, patch file
// maintenance, and configuration scaffolding. Heavy lifting lives in the
// internal packages; commands here resolve configuration, wire dependencies,
// and render results.
package main
