// Package catalog persists indexed session records and per-run reporting to a
// local SQLite database. Records are keyed by the drive file id so repeated
// runs update in place instead of duplicating sessions.
package catalog
