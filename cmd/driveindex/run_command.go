package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"driveindex/internal/catalog"
	"driveindex/internal/drive"
	"driveindex/internal/logging"
	"driveindex/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan the drive tree and index session recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, ctx)
		},
	}
}

func runIndex(cmd *cobra.Command, cmdCtx *commandContext) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	source, err := drive.New(cfg.Drive)
	if err != nil {
		return fmt.Errorf("initialize drive client: %w", err)
	}

	p, err := pipeline.New(cfg, store, source, logger)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := p.Run(runCtx)
	if err != nil {
		return err
	}

	renderSummary(cmd, summary)
	return nil
}

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func renderSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()

	header := fmt.Sprintf("Run %s finished in %s", summary.RunID, summary.Stats.Duration().Round(10*time.Millisecond))
	if isTerminal(out) {
		header = ansiBlue + header + ansiReset
	}
	fmt.Fprintf(out, "%s\n\n", header)

	counts := renderTable(
		[]string{"Metric", "Count"},
		[][]string{
			{"Files scanned", strconv.Itoa(summary.Stats.Scanned)},
			{"New records", strconv.Itoa(summary.Stats.New)},
			{"Updated records", strconv.Itoa(summary.Stats.Updated)},
			{"Upsert errors", strconv.Itoa(summary.Stats.Errors)},
			{"Non-video files skipped", strconv.Itoa(summary.Stats.Skipped)},
			{"Archived folders skipped", strconv.Itoa(summary.Stats.ArchivedSkipped)},
			{"Folder listing failures", strconv.Itoa(summary.Stats.ListingFailures)},
			{"Needs review", strconv.Itoa(summary.Stats.NeedsReviewCount)},
		},
		map[int]bool{2: true},
	)
	fmt.Fprintln(out, counts)

	report := summary.Report
	fmt.Fprintln(out)
	tiers := renderTable(
		[]string{"Quality tier", "Count"},
		[][]string{
			{"High (>= 0.8)", strconv.Itoa(report.HighConfidence)},
			{"Medium (>= 0.5)", strconv.Itoa(report.MediumConfidence)},
			{"Low", strconv.Itoa(report.LowConfidence)},
		},
		map[int]bool{2: true},
	)
	fmt.Fprintln(out, tiers)

	if len(report.NeedsReview) > 0 {
		rows := make([][]string, 0, len(report.NeedsReview))
		for _, item := range report.NeedsReview {
			rows = append(rows, []string{
				item.Title,
				fmt.Sprintf("%.2f", item.Confidence),
				strings.Join(item.Reasons, "; "),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Needs review", "Confidence", "Reasons"},
			rows,
			map[int]bool{2: true},
		))
		if report.ReviewTruncated {
			fmt.Fprintln(out, "Review list truncated; see the stored quality report for the full set.")
		}
	}
}
