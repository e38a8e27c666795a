package normalize_test

import (
	"testing"

	"driveindex/internal/normalize"
	"driveindex/internal/parse"
	"driveindex/internal/registry"
)

func strPtr(s string) *string { return &s }

func TestCoachAliasResolution(t *testing.T) {
	reg := registry.Load(nil, nil)

	cases := []struct {
		raw  string
		want string
	}{
		{"Marissa", "marissa"},
		{" MARI ", "marissa"},
		{"Ivy-Level", "ivylevel"},
		{"ivylevel team", "ivylevel"},
	}
	for _, tc := range cases {
		if got := normalize.Coach(reg, tc.raw); got != tc.want {
			t.Errorf("Coach(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCoachUnresolvedKeepsRawValue(t *testing.T) {
	reg := registry.Load(nil, nil)

	if got := normalize.Coach(reg, " Priya "); got != "Priya" {
		t.Fatalf("unresolved coach should keep original spelling, got %q", got)
	}
	if got := normalize.Coach(reg, "DeShawn"); got != "DeShawn" {
		t.Fatalf("unresolved coach must not be lowercased, got %q", got)
	}
	if got := normalize.Coach(reg, ""); got != parse.UnknownCoach {
		t.Fatalf("empty coach should yield sentinel, got %q", got)
	}
}

func TestStudentTitleCasedByDefault(t *testing.T) {
	reg := registry.Load(nil, nil)

	name, flagged := normalize.Student(reg, "iqra khan")
	if flagged {
		t.Fatal("unexpected review flag")
	}
	if name != "Iqra Khan" {
		t.Fatalf("expected title case, got %q", name)
	}
}

func TestStudentCorrectionShortCircuits(t *testing.T) {
	reg := registry.Load([]registry.Patch{
		{Kind: registry.KindStudentCorrection, Name: "fix", Corrections: map[string]*string{"ikra": strPtr("Iqra")}},
	}, nil)

	name, flagged := normalize.Student(reg, "IKRA")
	if flagged {
		t.Fatal("unexpected review flag")
	}
	if name != "Iqra" {
		t.Fatalf("expected correction applied verbatim, got %q", name)
	}
}

func TestStudentNullCorrectionFlagsForReview(t *testing.T) {
	reg := registry.Load([]registry.Patch{
		{Kind: registry.KindStudentCorrection, Name: "flag", Corrections: map[string]*string{"mystery kid": nil}},
	}, nil)

	name, flagged := normalize.Student(reg, "Mystery Kid")
	if !flagged {
		t.Fatal("expected review flag for null correction")
	}
	if name != parse.UnknownStudent {
		t.Fatalf("expected unknown sentinel, got %q", name)
	}
}
