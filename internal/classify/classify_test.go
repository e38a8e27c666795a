package classify_test

import (
	"reflect"
	"testing"

	"driveindex/internal/classify"
	"driveindex/internal/registry"
)

func TestSessionTypeFirstMatchWins(t *testing.T) {
	reg := registry.Load(nil, nil)

	cases := []struct {
		text string
		want string
	}{
		{"NO_SHOW_A_Ivylevel_Beya_WkUnknown_2025-04-29.mp4", "no-show"},
		{"GAMEPLAN_A_Jenna_Omar_Wk02.mp4", "game-plan"},
		{"168_first_session_kickoff.mp4", "168-hour"},
		{"crisis call with parent", "crisis"},
		{"parent check-in.mp4", "parent"},
		{"COACHING_A_Marissa_Iqra_Wk39.mp4", "regular"},
	}
	for _, tc := range cases {
		if got := classify.SessionType(reg, tc.text); got != tc.want {
			t.Errorf("SessionType(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestSubjectsMultipleMatches(t *testing.T) {
	reg := registry.Load(nil, nil)

	got := classify.Subjects(reg, "/Sessions/biomed/SAT_test_prep_biology_review.mp4")
	want := []string{"biomed", "test-prep"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Subjects = %v, want %v", got, want)
	}
}

func TestSubjectsNeverEmpty(t *testing.T) {
	reg := registry.Load(nil, nil)

	got := classify.Subjects(reg, "weekly catchup recording")
	if !reflect.DeepEqual(got, []string{classify.SubjectGeneral}) {
		t.Fatalf("Subjects = %v, want [general]", got)
	}
}

func TestSubjectsMonotonicUnderPatches(t *testing.T) {
	text := "physics olympiad training plus MCAT biology drill"
	base := registry.Load(nil, nil)
	before := classify.Subjects(base, text)

	patched := registry.Load([]registry.Patch{
		{Kind: registry.KindSubjectRule, Name: "olympiad", Pattern: `olympiad`, Label: "olympiad"},
	}, nil)
	after := classify.Subjects(patched, text)

	for _, subject := range before {
		found := false
		for _, s := range after {
			if s == subject {
				found = true
			}
		}
		if !found {
			t.Fatalf("patch removed subject %q: before=%v after=%v", subject, before, after)
		}
	}
	found := false
	for _, s := range after {
		if s == "olympiad" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected patched subject present, got %v", after)
	}
}

func TestSessionTypePatchOnlyAddsNewMatches(t *testing.T) {
	reg := registry.Load([]registry.Patch{
		{Kind: registry.KindSessionTypeRule, Name: "office-hours", Pattern: `office[ _-]?hours`, Label: "trivial"},
	}, nil)

	if got := classify.SessionType(reg, "office hours drop-in.mp4"); got != "trivial" {
		t.Fatalf("patched rule should match new text, got %q", got)
	}
	// Built-in crisis rule still wins for text both could describe.
	if got := classify.SessionType(reg, "crisis office hours"); got != "crisis" {
		t.Fatalf("built-in must win evaluation order, got %q", got)
	}
}
