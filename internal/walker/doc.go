// Package walker enumerates video files in a remote folder hierarchy.
//
// The walk is depth first and restartable per call. Archived subtrees (OLD_
// prefix, _Archive suffix) are pruned before descending, non-video files are
// silently skipped, and a listing failure in one folder never takes down the
// rest of the walk.
package walker
