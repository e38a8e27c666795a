package classify

import (
	"driveindex/internal/registry"
)

// Canonical fallback labels.
const (
	TypeRegular    = "regular"
	SubjectGeneral = "general"
)

// SessionType derives the session-type label from filename and folder text.
// Rules run in registry order (built-ins before patches), first match wins;
// unmatched text is a regular session.
func SessionType(reg *registry.Registry, text string) string {
	for _, rule := range reg.SessionTypeRules() {
		if rule.Expr.MatchString(text) {
			return rule.Label
		}
	}
	return TypeRegular
}

// Subjects derives subject tags from filename and folder text. Every matching
// rule contributes its label, so a session can carry several subjects. The
// result is never empty: unmatched text yields {general}.
func Subjects(reg *registry.Registry, text string) []string {
	var subjects []string
	seen := map[string]struct{}{}
	for _, rule := range reg.SubjectRules() {
		if !rule.Expr.MatchString(text) {
			continue
		}
		if _, dup := seen[rule.Label]; dup {
			continue
		}
		seen[rule.Label] = struct{}{}
		subjects = append(subjects, rule.Label)
	}
	if len(subjects) == 0 {
		return []string{SubjectGeneral}
	}
	return subjects
}
