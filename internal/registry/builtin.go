package registry

import "regexp"

// Group names used by filename pattern expressions.
const (
	GroupType    = "type"
	GroupCoach   = "coach"
	GroupStudent = "student"
	GroupWeek    = "week"
	GroupDate    = "date"
)

// Built-in filename pattern tier names. These identifiers end up in
// SessionRecord tags, so changing one invalidates saved parse-method tags.
const (
	TierStructured       = "structured"
	TierStructuredNoWeek = "structured-noweek"
	TierLegacyAmpersand  = "legacy-ampersand"
	TierLegacyUnderscore = "legacy-underscore"
)

func builtinFilenamePatterns() []FilenamePattern {
	return []FilenamePattern{
		{
			Name: TierStructured,
			Expr: regexp.MustCompile(`(?i)^(?P<type>[A-Za-z_]+?)_A_(?P<coach>[A-Za-z]+)_(?P<student>[A-Za-z]+)_Wk(?P<week>\d{1,2}|Unknown)_(?P<date>\d{4}[-_]\d{1,2}[-_]\d{1,2})`),
		},
		{
			Name: TierStructuredNoWeek,
			Expr: regexp.MustCompile(`(?i)^(?P<type>[A-Za-z_]+?)_A_(?P<coach>[A-Za-z]+)_(?P<student>[A-Za-z]+)_(?P<date>\d{4}[-_]\d{1,2}[-_]\d{1,2})`),
		},
		{
			Name: TierLegacyAmpersand,
			Expr: regexp.MustCompile(`(?i)^(?P<coach>[A-Za-z]+)\s*&\s*(?P<student>[A-Za-z]+)(?:\s*[-_]\s*(?:Week|Wk)\s*(?P<week>\d{1,2}))?`),
		},
		{
			Name: TierLegacyUnderscore,
			Expr: regexp.MustCompile(`(?i)^(?P<coach>[A-Za-z]+)_(?P<student>[A-Za-z]+)_(?P<date>\d{4}[-_]\d{1,2}[-_]\d{1,2})`),
		},
	}
}

// builtinCoachAliases maps canonical coach names to every raw spelling seen in
// the historical tree. All entries are lowercase; lookups lowercase the input.
func builtinCoachAliases() map[string][]string {
	return map[string][]string{
		"marissa":  {"marissa", "mari", "marissa b"},
		"ivylevel": {"ivylevel", "ivy", "ivy level", "ivy-level", "ivylevel team"},
		"jenna":    {"jenna", "jen"},
		"andrew":   {"andrew", "andy", "drew"},
		"kelvin":   {"kelvin", "kel"},
		"juli":     {"juli", "julie", "juliana"},
		"aarnav":   {"aarnav", "arnav"},
		"steven":   {"steven", "steve"},
	}
}

func builtinStudentCorrections() map[string]correction {
	return map[string]correction{
		"unknown":         {flag: true},
		"unknown student": {flag: true},
		"student":         {flag: true},
		"tbd":             {flag: true},
	}
}

func builtinSessionTypeRules() []LabelRule {
	return []LabelRule{
		{Name: "first-session", Expr: regexp.MustCompile(`(?i)168|first[ _-]?session`), Label: "168-hour"},
		{Name: "game-plan", Expr: regexp.MustCompile(`(?i)game[ _-]?plan`), Label: "game-plan"},
		{Name: "crisis", Expr: regexp.MustCompile(`(?i)crisis|urgent|emergency`), Label: "crisis"},
		{Name: "parent-meeting", Expr: regexp.MustCompile(`(?i)parent`), Label: "parent"},
		{Name: "no-show", Expr: regexp.MustCompile(`(?i)no[ _-]?show`), Label: "no-show"},
		{Name: "trivial", Expr: regexp.MustCompile(`(?i)trivial|quick[ _-]?sync`), Label: "trivial"},
	}
}

func builtinSubjectRules() []LabelRule {
	return []LabelRule{
		{Name: "biomed", Expr: regexp.MustCompile(`(?i)bio[ _-]?med|biology|\bmcat\b|pre[ _-]?med`), Label: "biomed"},
		{Name: "cs", Expr: regexp.MustCompile(`(?i)\bcs\b|comp[ _-]?sci|software|coding|programming`), Label: "cs"},
		{Name: "business", Expr: regexp.MustCompile(`(?i)business|entrepreneur|startup`), Label: "business"},
		{Name: "stem", Expr: regexp.MustCompile(`(?i)\bstem\b|\bmath\b|physics|engineering|robotics`), Label: "stem"},
		{Name: "test-prep", Expr: regexp.MustCompile(`(?i)test[ _-]?prep|\bsat\b|\bact\b|\bpsat\b|\bap\b`), Label: "test-prep"},
	}
}
