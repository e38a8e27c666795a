// Package normalize maps raw extracted coach and student substrings to the
// canonical spellings used across the catalog.
package normalize
