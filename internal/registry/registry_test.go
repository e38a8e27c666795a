package registry_test

import (
	"path/filepath"
	"testing"

	"driveindex/internal/registry"
)

func strPtr(s string) *string { return &s }

func TestLoadWithoutPatchesUsesBuiltins(t *testing.T) {
	reg := registry.Load(nil, nil)

	if canonical, ok := reg.CoachCanonical("  Ivylevel "); !ok || canonical != "ivylevel" {
		t.Fatalf("expected ivylevel alias resolution, got %q ok=%v", canonical, ok)
	}
	if _, ok := reg.CoachCanonical("beya"); ok {
		t.Fatal("did not expect a student name to resolve as coach")
	}
	if len(reg.FilenamePatterns()) == 0 {
		t.Fatal("expected built-in filename patterns")
	}
	if reg.FilenamePatterns()[0].Name != registry.TierStructured {
		t.Fatalf("expected structured tier first, got %q", reg.FilenamePatterns()[0].Name)
	}
}

func TestCoachAliasPatchAppendsToExistingSet(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindCoachAlias, Name: "marissa-nickname", Coach: "Marissa", Aliases: []string{"Rissa", "marissa"}},
	}
	reg := registry.Load(patches, nil)

	if canonical, ok := reg.CoachCanonical("rissa"); !ok || canonical != "marissa" {
		t.Fatalf("expected patched alias to resolve, got %q ok=%v", canonical, ok)
	}
	// The pre-existing alias still resolves.
	if canonical, ok := reg.CoachCanonical("mari"); !ok || canonical != "marissa" {
		t.Fatalf("expected built-in alias intact, got %q ok=%v", canonical, ok)
	}
}

func TestCoachAliasPatchCreatesNewCoach(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindCoachAlias, Name: "new-coach", Coach: "Priya", Aliases: []string{"Pri"}},
	}
	reg := registry.Load(patches, nil)

	for _, alias := range []string{"priya", "pri"} {
		if canonical, ok := reg.CoachCanonical(alias); !ok || canonical != "priya" {
			t.Fatalf("alias %q: got %q ok=%v", alias, canonical, ok)
		}
	}
}

func TestStudentCorrectionLaterEntriesOverride(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindStudentCorrection, Name: "first", Corrections: map[string]*string{"ikra": strPtr("Iqra")}},
		{Kind: registry.KindStudentCorrection, Name: "second", Corrections: map[string]*string{"ikra": strPtr("Ikraam")}},
	}
	reg := registry.Load(patches, nil)

	replacement, flagged, ok := reg.StudentCorrection("Ikra")
	if !ok || flagged {
		t.Fatalf("expected unflagged correction, flagged=%v ok=%v", flagged, ok)
	}
	if replacement != "Ikraam" {
		t.Fatalf("expected later patch to win, got %q", replacement)
	}
}

func TestStudentCorrectionNullMeansReview(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindStudentCorrection, Name: "flag", Corrections: map[string]*string{"mystery kid": nil}},
	}
	reg := registry.Load(patches, nil)

	_, flagged, ok := reg.StudentCorrection("Mystery Kid")
	if !ok || !flagged {
		t.Fatalf("expected flagged correction, flagged=%v ok=%v", flagged, ok)
	}
}

func TestFilenamePatternPatchAppendsAfterBuiltins(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindFilenamePattern, Name: "zoom-export", Pattern: `^zoom_(?P<coach>[a-z]+)-(?P<student>[a-z]+)`},
	}
	reg := registry.Load(patches, nil)

	all := reg.FilenamePatterns()
	last := all[len(all)-1]
	if last.Name != "zoom-export" || !last.Patched {
		t.Fatalf("expected patched pattern appended last, got %+v", last)
	}
	for _, p := range all[:len(all)-1] {
		if p.Patched {
			t.Fatalf("built-in tier %q should precede patches", p.Name)
		}
	}
}

func TestInvalidPatchesAreSkippedNotFatal(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindFilenamePattern, Name: "broken", Pattern: `([unclosed`},
		{Kind: "mystery-kind", Name: "unknown"},
		{Kind: registry.KindCoachAlias, Name: "no-coach"},
		{Kind: registry.KindSubjectRule, Name: "good", Pattern: `physics[ _-]?olympiad`, Label: "stem"},
	}
	reg := registry.Load(patches, nil)

	rules := reg.SubjectRules()
	last := rules[len(rules)-1]
	if last.Name != "good" || !last.Patched {
		t.Fatalf("expected valid patch applied after invalid ones skipped, got %+v", last)
	}
	if len(reg.FilenamePatterns()) != 4 {
		t.Fatalf("broken filename patch should not register, have %d patterns", len(reg.FilenamePatterns()))
	}
}

func TestSessionTypeRulePatchCannotShadowBuiltin(t *testing.T) {
	patches := []registry.Patch{
		{Kind: registry.KindSessionTypeRule, Name: "crisis-rebrand", Pattern: `crisis`, Label: "escalation"},
	}
	reg := registry.Load(patches, nil)

	rules := reg.SessionTypeRules()
	// Built-in crisis rule still comes first in evaluation order.
	for _, rule := range rules {
		if rule.Expr.MatchString("crisis call") {
			if rule.Label != "crisis" {
				t.Fatalf("expected built-in to win evaluation order, first match label %q", rule.Label)
			}
			return
		}
	}
	t.Fatal("no rule matched crisis text")
}

func TestPatchFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.json")

	// Missing file is fine.
	patches, err := registry.LoadPatchFile(path)
	if err != nil || patches != nil {
		t.Fatalf("expected empty load for missing file, got %v %v", patches, err)
	}

	first := registry.Patch{Kind: registry.KindCoachAlias, Name: "a", Coach: "priya", Aliases: []string{"pri"}}
	second := registry.Patch{Kind: registry.KindSubjectRule, Name: "b", Pattern: `chem`, Label: "stem"}
	if err := registry.AppendPatchFile(path, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := registry.AppendPatchFile(path, second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	patches, err = registry.LoadPatchFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(patches) != 2 || patches[0].Name != "a" || patches[1].Name != "b" {
		t.Fatalf("unexpected patch order: %+v", patches)
	}
}

func TestAppendPatchFileRejectsInvalidPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.json")
	bad := registry.Patch{Kind: registry.KindFilenamePattern, Name: "bad", Pattern: `([`}
	if err := registry.AppendPatchFile(path, bad); err == nil {
		t.Fatal("expected validation error")
	}
	if patches, _ := registry.LoadPatchFile(path); len(patches) != 0 {
		t.Fatalf("invalid patch must not be written, got %+v", patches)
	}
}
