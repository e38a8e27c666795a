package registry

import (
	"regexp"
	"strings"
)

// FilenamePattern is one ordered filename matcher. Expressions use named
// capture groups (type, coach, student, week, date); a pattern captures only
// the subset of fields it knows about.
type FilenamePattern struct {
	Name    string
	Expr    *regexp.Regexp
	Patched bool
}

// LabelRule maps a text pattern to a canonical label. Session-type rules are
// evaluated first match wins; subject rules contribute every match.
type LabelRule struct {
	Name    string
	Expr    *regexp.Regexp
	Label   string
	Patched bool
}

type correction struct {
	replacement string
	flag        bool
}

// Registry holds the extraction rule set consulted by the parser, normalizer,
// and classifier. It is built once by Load and read-only afterwards, so a
// single value can be shared freely.
type Registry struct {
	coachAliases       map[string][]string
	studentCorrections map[string]correction
	filenamePatterns   []FilenamePattern
	sessionTypeRules   []LabelRule
	subjectRules       []LabelRule
}

// FilenamePatterns returns the ordered filename matchers, built-ins first.
func (r *Registry) FilenamePatterns() []FilenamePattern {
	return r.filenamePatterns
}

// SessionTypeRules returns the ordered session-type rules, built-ins first.
func (r *Registry) SessionTypeRules() []LabelRule {
	return r.sessionTypeRules
}

// SubjectRules returns the ordered subject rules, built-ins first.
func (r *Registry) SubjectRules() []LabelRule {
	return r.subjectRules
}

// CoachCanonical resolves a raw coach string against every alias set and
// returns the canonical name on an exact (case-insensitive, trimmed) match.
func (r *Registry) CoachCanonical(raw string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false
	}
	for canonical, aliases := range r.coachAliases {
		for _, alias := range aliases {
			if alias == needle {
				return canonical, true
			}
		}
	}
	return "", false
}

// KnownCoach reports whether the raw string resolves to any coach alias.
func (r *Registry) KnownCoach(raw string) bool {
	_, ok := r.CoachCanonical(raw)
	return ok
}

// StudentCorrection looks up the correction table. A flagged entry maps a
// known-wrong spelling to no replacement at all, meaning the record should be
// routed to manual review.
func (r *Registry) StudentCorrection(raw string) (replacement string, flagged, ok bool) {
	entry, ok := r.studentCorrections[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", false, false
	}
	return entry.replacement, entry.flag, true
}

// Coaches returns the canonical coach names with aliases, for display.
func (r *Registry) Coaches() map[string][]string {
	out := make(map[string][]string, len(r.coachAliases))
	for canonical, aliases := range r.coachAliases {
		out[canonical] = append([]string(nil), aliases...)
	}
	return out
}
