package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"driveindex/internal/parse"
	"driveindex/internal/registry"
)

var titleCaser = cases.Title(language.Und)

// Coach resolves a raw coach string to its canonical name via the registry's
// alias tables. Lookup is case-insensitive, but an unresolvable value keeps
// its original spelling rather than collapsing to the unknown sentinel, so
// the raw form survives for later manual correction via an alias patch.
func Coach(reg *registry.Registry, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return parse.UnknownCoach
	}
	if canonical, ok := reg.CoachCanonical(strings.ToLower(trimmed)); ok {
		return canonical
	}
	return trimmed
}

// Student normalizes a raw student string. The correction table is consulted
// first and short-circuits: an explicit wrong-to-right mapping wins, and a
// wrong-to-null mapping yields the unknown sentinel with flagged=true so the
// record lands in the review queue. Otherwise the name is title-cased per word.
func Student(reg *registry.Registry, raw string) (name string, flagged bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return parse.UnknownStudent, false
	}

	if replacement, flag, ok := reg.StudentCorrection(cleaned); ok {
		if flag || replacement == "" {
			return parse.UnknownStudent, true
		}
		return replacement, false
	}

	return titleCaser.String(cleaned), false
}
