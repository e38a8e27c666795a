// Package registry holds the extraction rule set: filename patterns, coach
// alias tables, student correction tables, and session-type/subject detection
// rules.
//
// A Registry is assembled once at startup from built-in rules plus an ordered
// list of patches loaded from an external JSON file, then treated as
// immutable. Patches only ever append: built-in rules are evaluated first, so
// a patch can add matches for previously unmatched text but can never shadow a
// built-in. Structurally invalid patches are skipped with a warning rather
// than failing the load, so one bad rule cannot take the indexer down.
package registry
