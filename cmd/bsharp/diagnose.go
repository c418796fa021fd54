package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bsharp/internal/diag"
	"bsharp/internal/diagfmt"
	"bsharp/internal/driver"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.bs|directory]",
	Short: "Report lexical and syntax diagnostics",
	Long: `Run diagnostics to find lexical and syntax issues in a B# source file or all
*.bs files within a directory. Exits with status 1 when any error is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagnose,
}

// init registers CLI flags for the diag command used by runDiagnose.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("strict", false, "stop at the first syntax error")
	diagCmd.Flags().Int("max-errors", 0, "stop after this many syntax errors per file (0=unlimited)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits (implies --suggest)")
	diagCmd.Flags().String("path-mode", "auto", "file path style (auto|absolute|relative|basename)")
	diagCmd.Flags().Bool("cache", false, "reuse diagnostics of unchanged files from the disk cache")
	diagCmd.Flags().Bool("clear-cache", false, "empty the disk cache before diagnosing")
}

// runDiagnose parses every input, prints the collected diagnostics in the
// chosen format and fails with exit status 1 when any of them is an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	in, err := resolveInputs(args)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, in.manifest)
	if err != nil {
		return err
	}
	timing, err := newTimingCollector(cmd, &opts)
	if err != nil {
		return err
	}

	fs, results, err := runFiles(cmd.Context(), "diagnosing", in, opts, !quiet && shouldUseTUI(mode, len(in.files)))
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	failed := false
	for _, r := range results {
		failed = failed || r.HasErrors()
	}

	pathMode := diagfmt.ParsePathMode(pathModeStr)
	showFixes := suggest || preview

	switch format {
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		prettyOpts := diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		}
		diagfmt.Pretty(os.Stdout, driver.MergeBags(results, maxDiagnostics), fs, prettyOpts)
		if !quiet && len(results) > 1 {
			printSummary(cmd, results)
		}
	case "short":
		merged := driver.MergeBags(results, maxDiagnostics)
		if output := diag.FormatShortDiagnostics(merged.Items(), fs, withNotes); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		}
		if in.single {
			if err := diagfmt.JSON(os.Stdout, results[0].Bag, fs, jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
			break
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[displayPath(fs, r, pathMode.String())] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	}
	timing.print(os.Stderr)

	if failed {
		return failSilently(cmd)
	}
	return nil
}

// printSummary пишет в stderr итог по файлам: сколько с ошибками и сколько из кэша.
func printSummary(cmd *cobra.Command, results []driver.FileResult) {
	withErrors, cached := 0, 0
	for _, r := range results {
		if r.HasErrors() {
			withErrors++
		}
		if r.Cached {
			cached++
		}
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "%d file(s), %d with errors", len(results), withErrors)
	if cached > 0 {
		fmt.Fprintf(out, ", %d cached", cached)
	}
	fmt.Fprintln(out)
}
