// Package logging builds the slog loggers used across driveindex.
//
// Two handler formats are supported: a human-oriented console handler that
// lifts the component attribute into the message prefix, and a JSON handler
// for machine consumption. Attr aliases keep call sites terse and make the
// logging surface swappable without touching every caller.
package logging
