package pipeline

import "errors"

// Sentinel errors for fatal run classification. Everything below the run level
// (a folder listing, a single file, a single upsert) is recovered in place and
// counted instead of surfaced through these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrLocked        = errors.New("another indexing run is in progress")
)
