package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"driveindex/internal/logging"
	"driveindex/internal/registry"
)

func newPatchCommand(ctx *commandContext) *cobra.Command {
	patchCmd := &cobra.Command{
		Use:   "patch",
		Short: "Manage extraction rule patches",
	}

	patchCmd.AddCommand(newPatchAddCommand(ctx))
	patchCmd.AddCommand(newPatchListCommand(ctx))

	return patchCmd
}

func newPatchAddCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "add [json]",
		Short: "Append a validated patch to the patch file",
		Long: "Accepts a single patch as a JSON object, either inline as an argument or " +
			"via --file. The patch is validated (unknown kinds and bad regexes are " +
			"rejected) before it is appended; patches are evaluated after all built-in " +
			"rules and never replace them.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var payload []byte
			switch {
			case fromFile != "":
				payload, err = os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read patch file %q: %w", fromFile, err)
				}
			case len(args) == 1:
				payload = []byte(args[0])
			default:
				return fmt.Errorf("a patch JSON argument or --file is required")
			}

			var patch registry.Patch
			decoder := json.NewDecoder(bytes.NewReader(payload))
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&patch); err != nil {
				return fmt.Errorf("decode patch: %w", err)
			}

			if err := registry.AppendPatchFile(cfg.Paths.PatchFile, patch); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Appended %s patch %q to %s\n",
				patch.Kind, patch.Name, cfg.Paths.PatchFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the patch JSON from a file")
	return cmd
}

func newPatchListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all extraction rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			patches, err := registry.LoadPatchFile(cfg.Paths.PatchFile)
			if err != nil {
				return fmt.Errorf("load patch file: %w", err)
			}
			reg := registry.Load(patches, logging.NewNop())
			out := cmd.OutOrStdout()

			patternRows := make([][]string, 0, len(reg.FilenamePatterns()))
			for i, pattern := range reg.FilenamePatterns() {
				patternRows = append(patternRows, []string{
					strconv.Itoa(i + 1),
					pattern.Name,
					truncate(pattern.Expr.String(), 64),
					source(pattern.Patched),
				})
			}
			fmt.Fprintln(out, "Filename patterns (first match wins):")
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Pattern", "Source"},
				patternRows,
				map[int]bool{1: true},
			))

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Session type rules (first match wins):")
			fmt.Fprintln(out, renderLabelRules(reg.SessionTypeRules()))

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Subject rules (all matches apply):")
			fmt.Fprintln(out, renderLabelRules(reg.SubjectRules()))

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Coach aliases:")
			fmt.Fprintln(out, renderCoachAliases(reg))
			return nil
		},
	}
}

func renderLabelRules(rules []registry.LabelRule) string {
	rows := make([][]string, 0, len(rules))
	for i, rule := range rules {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rule.Name,
			rule.Label,
			truncate(rule.Expr.String(), 48),
			source(rule.Patched),
		})
	}
	return renderTable(
		[]string{"#", "Name", "Label", "Pattern", "Source"},
		rows,
		map[int]bool{1: true},
	)
}

func renderCoachAliases(reg *registry.Registry) string {
	coaches := reg.Coaches()
	names := make([]string, 0, len(coaches))
	for name := range coaches {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strings.Join(coaches[name], ", ")})
	}
	return renderTable([]string{"Canonical", "Aliases"}, rows, nil)
}

func source(patched bool) string {
	if patched {
		return "patch"
	}
	return "built-in"
}
