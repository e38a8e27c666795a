package parse

import (
	"strings"
	"time"

	"driveindex/internal/registry"
)

// Sentinels for fields the parser could not recover. The coach sentinel is
// lowercase and the student sentinel title-case to match the historical
// records already in the catalog.
const (
	UnknownCoach   = "unknown"
	UnknownStudent = "Unknown"
	UnknownWeek    = "Unknown"
	UnknownType    = "unknown"
)

// Parse method identifiers for non-pattern outcomes.
const (
	MethodFolderBased = "folder-based"
	MethodNone        = "none"
)

// Extraction is the raw-then-normalized result of parsing one file's name and
// path. The parser fills the raw fields; the normalizer and classifier fill
// CoachNorm, StudentNorm, SessionType, and Subjects downstream. Values are not
// mutated after that stage completes.
type Extraction struct {
	Raw     string
	Type    string
	Coach   string
	Student string
	Week    string
	Date    *time.Time

	CoachNorm   string
	StudentNorm string
	SessionType string
	Subjects    []string

	ParseMethod  string
	WasPatched   bool
	PatchApplied string

	// ReviewHints carries parser-stage observations (e.g. ambiguous folder
	// names) into the scorer's review reasons.
	ReviewHints []string
}

// CoachKnown reports whether a usable coach name was recovered.
func (e *Extraction) CoachKnown() bool {
	return e.CoachNorm != "" && !strings.EqualFold(e.CoachNorm, UnknownCoach)
}

// StudentKnown reports whether a usable student name was recovered.
func (e *Extraction) StudentKnown() bool {
	return e.StudentNorm != "" && e.StudentNorm != UnknownStudent
}

// WeekKnown reports whether a numeric week was recovered. The literal
// "Unknown" week marker in structured filenames counts as missing.
func (e *Extraction) WeekKnown() bool {
	return e.Week != "" && !strings.EqualFold(e.Week, UnknownWeek)
}

// DateKnown reports whether a session date was recovered.
func (e *Extraction) DateKnown() bool {
	return e.Date != nil
}

// PatternParsed reports whether a real filename pattern matched, as opposed to
// the folder fallback or no parse at all.
func (e *Extraction) PatternParsed() bool {
	return e.ParseMethod != MethodFolderBased && e.ParseMethod != MethodNone
}

// Parse applies the registry's filename patterns in order, first match wins,
// then falls back to folder-hierarchy inference. It never fails: a file
// nothing matches is carried forward with sentinel fields.
func Parse(reg *registry.Registry, filename, folderPath string) Extraction {
	ext := Extraction{
		Raw:     filename,
		Type:    UnknownType,
		Coach:   UnknownCoach,
		Student: UnknownStudent,
		Week:    UnknownWeek,
	}

	for _, pattern := range reg.FilenamePatterns() {
		match := pattern.Expr.FindStringSubmatch(filename)
		if match == nil {
			continue
		}
		ext.ParseMethod = pattern.Name
		if pattern.Patched {
			ext.WasPatched = true
			ext.PatchApplied = pattern.Name
		}
		applyGroups(&ext, pattern.Expr.SubexpNames(), match)
		return ext
	}

	inferFromFolder(reg, &ext, folderPath)
	return ext
}

func applyGroups(ext *Extraction, names []string, match []string) {
	for i, name := range names {
		if i == 0 || i >= len(match) || match[i] == "" {
			continue
		}
		value := match[i]
		switch name {
		case registry.GroupType:
			ext.Type = value
		case registry.GroupCoach:
			ext.Coach = value
		case registry.GroupStudent:
			ext.Student = value
		case registry.GroupWeek:
			if strings.EqualFold(value, UnknownWeek) {
				ext.Week = UnknownWeek
			} else {
				ext.Week = value
			}
		case registry.GroupDate:
			ext.Date = ParseDate(value)
		}
	}
}

// inferFromFolder assigns coach/student from the last two path segments: the
// second-to-last segment becomes the coach when it is a known alias, and the
// last segment becomes the student only when it is not itself a coach alias.
// Two coach-named segments in a row are treated as ambiguous rather than
// guessed at.
func inferFromFolder(reg *registry.Registry, ext *Extraction, folderPath string) {
	segments := splitPath(folderPath)
	if len(segments) == 0 {
		ext.ParseMethod = MethodNone
		return
	}

	var parent, leaf string
	if len(segments) >= 2 {
		parent = segments[len(segments)-2]
		leaf = segments[len(segments)-1]
	} else {
		parent = segments[0]
	}

	if !reg.KnownCoach(parent) {
		ext.ParseMethod = MethodNone
		return
	}

	ext.ParseMethod = MethodFolderBased
	ext.Coach = parent
	if leaf == "" {
		return
	}
	if reg.KnownCoach(leaf) {
		ext.ReviewHints = append(ext.ReviewHints, "ambiguous folder names")
		return
	}
	ext.Student = leaf
}

func splitPath(folderPath string) []string {
	parts := strings.FieldsFunc(folderPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"01-02-2006",
	"1-2-2006",
	"2006-01",
}

// ParseDate parses a date string permissively. Underscores are normalized to
// dashes first; an unparseable value yields nil, never an error.
func ParseDate(value string) *time.Time {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), "_", "-")
	if cleaned == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return &parsed
		}
	}
	return nil
}
