package registry

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"driveindex/internal/logging"
)

// Patch kinds. Each kind appends to one rule collection; no patch removes or
// reorders existing rules.
const (
	KindCoachAlias        = "coach-alias"
	KindStudentCorrection = "student-correction"
	KindFilenamePattern   = "filename-pattern"
	KindSessionTypeRule   = "session-type-rule"
	KindSubjectRule       = "subject-rule"
)

// Patch is a single externally supplied registry mutation. The payload fields
// used depend on Kind; Validate enforces the pairing.
type Patch struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// coach-alias payload
	Coach   string   `json:"coach,omitempty"`
	Aliases []string `json:"aliases,omitempty"`

	// student-correction payload: wrong spelling -> right spelling, or null to
	// route the name to manual review.
	Corrections map[string]*string `json:"corrections,omitempty"`

	// filename-pattern / session-type-rule / subject-rule payload
	Pattern string `json:"pattern,omitempty"`
	Flags   string `json:"flags,omitempty"`
	Label   string `json:"label,omitempty"`
}

// Validate checks the patch payload is structurally sound. It is called both
// at load time (bad patches are skipped) and by `patch add` (bad patches are
// rejected before they reach the file).
func (p Patch) Validate() error {
	switch p.Kind {
	case KindCoachAlias:
		if strings.TrimSpace(p.Coach) == "" {
			return fmt.Errorf("coach-alias patch %q: coach required", p.Name)
		}
		if len(p.Aliases) == 0 {
			return fmt.Errorf("coach-alias patch %q: at least one alias required", p.Name)
		}
	case KindStudentCorrection:
		if len(p.Corrections) == 0 {
			return fmt.Errorf("student-correction patch %q: corrections map required", p.Name)
		}
	case KindFilenamePattern:
		if _, err := p.compile(); err != nil {
			return fmt.Errorf("filename-pattern patch %q: %w", p.Name, err)
		}
	case KindSessionTypeRule, KindSubjectRule:
		if strings.TrimSpace(p.Label) == "" {
			return fmt.Errorf("%s patch %q: label required", p.Kind, p.Name)
		}
		if _, err := p.compile(); err != nil {
			return fmt.Errorf("%s patch %q: %w", p.Kind, p.Name, err)
		}
	case "":
		return fmt.Errorf("patch %q: kind required", p.Name)
	default:
		return fmt.Errorf("patch %q: unknown kind %q", p.Name, p.Kind)
	}
	return nil
}

func (p Patch) compile() (*regexp.Regexp, error) {
	pattern := strings.TrimSpace(p.Pattern)
	if pattern == "" {
		return nil, fmt.Errorf("pattern required")
	}
	flags := strings.TrimSpace(p.Flags)
	if flags == "" {
		flags = "i"
	}
	return regexp.Compile("(?" + flags + ")" + pattern)
}

// Load builds a Registry from the built-in rule sets plus the supplied patch
// list, applied strictly in order. A structurally invalid patch is skipped
// with a warning; patch failures are never fatal. The returned Registry is
// immutable.
func Load(patches []Patch, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "registry")

	reg := &Registry{
		coachAliases:       builtinCoachAliases(),
		studentCorrections: builtinStudentCorrections(),
		filenamePatterns:   builtinFilenamePatterns(),
		sessionTypeRules:   builtinSessionTypeRules(),
		subjectRules:       builtinSubjectRules(),
	}

	applied := 0
	for i, patch := range patches {
		if err := patch.Validate(); err != nil {
			logger.Warn("skipping invalid patch",
				logging.Int("index", i),
				logging.String("patch", patch.Name),
				logging.Error(err))
			continue
		}
		reg.apply(patch)
		applied++
	}

	if len(patches) > 0 {
		logger.Info("registry loaded",
			logging.Int("patches_applied", applied),
			logging.Int("patches_skipped", len(patches)-applied))
	}
	return reg
}

func (r *Registry) apply(p Patch) {
	switch p.Kind {
	case KindCoachAlias:
		canonical := strings.ToLower(strings.TrimSpace(p.Coach))
		existing := r.coachAliases[canonical]
		if len(existing) == 0 {
			existing = []string{canonical}
		}
		for _, alias := range p.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" || containsString(existing, alias) {
				continue
			}
			existing = append(existing, alias)
		}
		r.coachAliases[canonical] = existing
	case KindStudentCorrection:
		// Later entries override earlier ones for the same wrong spelling.
		for wrong, right := range p.Corrections {
			wrong = strings.ToLower(strings.TrimSpace(wrong))
			if wrong == "" {
				continue
			}
			if right == nil {
				r.studentCorrections[wrong] = correction{flag: true}
			} else {
				r.studentCorrections[wrong] = correction{replacement: strings.TrimSpace(*right)}
			}
		}
	case KindFilenamePattern:
		expr, err := p.compile()
		if err != nil {
			return
		}
		r.filenamePatterns = append(r.filenamePatterns, FilenamePattern{
			Name:    patchRuleName(p),
			Expr:    expr,
			Patched: true,
		})
	case KindSessionTypeRule:
		expr, err := p.compile()
		if err != nil {
			return
		}
		r.sessionTypeRules = append(r.sessionTypeRules, LabelRule{
			Name:    patchRuleName(p),
			Expr:    expr,
			Label:   strings.TrimSpace(p.Label),
			Patched: true,
		})
	case KindSubjectRule:
		expr, err := p.compile()
		if err != nil {
			return
		}
		r.subjectRules = append(r.subjectRules, LabelRule{
			Name:    patchRuleName(p),
			Expr:    expr,
			Label:   strings.TrimSpace(p.Label),
			Patched: true,
		})
	}
}

func patchRuleName(p Patch) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "patch"
	}
	return name
}

func containsString(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
