package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"driveindex/internal/logging"
	"driveindex/internal/parse"
	"driveindex/internal/pipeline"
	"driveindex/internal/registry"
)

// Sample filenames covering each parse tier plus a non-matching case. The
// folder path stands in for a typical coach/student hierarchy.
var sampleFiles = []struct {
	name   string
	folder string
}{
	{"COACHING_A_Marissa_Iqra_Wk39_2025-01-11_M_81240877673U_xyz.mp4", "Coaches/Marissa/Iqra"},
	{"NO_SHOW_A_Ivylevel_Beya_WkUnknown_2025-04-29_M_123U_abc.mp4", "Sessions"},
	{"GAME_PLAN_A_Andrew_Advay_Wk01_2025-03-02_M_99201U_q.mp4", "Coaches/Andrew/Advay"},
	{"Jenna & Huda - Week 12.mp4", "Legacy"},
	{"Kelvin_Abhi_2024-11-30.mp4", "Legacy"},
	{"random screen recording.mp4", "Coaches/Marissa/Priya"},
	{"VID_20250101_random.mp4", "Misc"},
}

func newTestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [filename ...]",
		Short: "Parse sample filenames offline and show extraction results",
		Long: "Runs the parser, classifier, and scorer over built-in sample filenames " +
			"(plus any supplied as arguments) without touching the network or the catalog. " +
			"Patches from the configured patch file are applied, so this is the fastest " +
			"way to preview a patch before a real run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			patches, err := registry.LoadPatchFile(cfg.Paths.PatchFile)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: patch file unreadable (%v); using built-ins only\n", err)
				patches = nil
			}
			reg := registry.Load(patches, logging.NewNop())

			type sample struct{ name, folder string }
			samples := make([]sample, 0, len(sampleFiles)+len(args))
			for _, s := range sampleFiles {
				samples = append(samples, sample{s.name, s.folder})
			}
			argFolder, _ := cmd.Flags().GetString("folder")
			for _, arg := range args {
				samples = append(samples, sample{arg, argFolder})
			}

			rows := make([][]string, 0, len(samples))
			for _, s := range samples {
				ext, sc := pipeline.Extract(reg, s.name, s.folder)
				rows = append(rows, []string{
					truncate(s.name, 48),
					ext.ParseMethod,
					ext.CoachNorm,
					ext.StudentNorm,
					ext.Week,
					formatDate(&ext),
					ext.SessionType,
					strings.Join(ext.Subjects, ","),
					fmt.Sprintf("%.2f", sc.Confidence),
					yesNo(sc.NeedsReview),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Method", "Coach", "Student", "Week", "Date", "Type", "Subjects", "Conf", "Review"},
				rows,
				map[int]bool{9: true},
			))
			return nil
		},
	}

	cmd.Flags().String("folder", "Coaches", "Folder path used for filenames passed as arguments")
	return cmd
}

func formatDate(ext *parse.Extraction) string {
	if ext.Date == nil {
		return "-"
	}
	return ext.Date.Format("2006-01-02")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
