package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bsharp/internal/diag"
	"bsharp/internal/diagfmt"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.bs|directory]",
	Short: "Verify that tokens and trees reproduce the source text",
	Long: `Check lexes and parses every input and verifies that the concatenated token
text and the syntax tree text are identical to the file. Syntax errors do not
fail the check; only a lost or altered byte does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("all", false, "also print lexical and syntax diagnostics")
}

func runCheck(cmd *cobra.Command, args []string) error {
	showAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
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

	in, err := resolveInputs(args)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, in.manifest)
	if err != nil {
		return err
	}
	// strict обрывает дерево, сверять было бы нечего
	opts.Strict = false
	opts.RoundTrip = true
	timing, err := newTimingCollector(cmd, &opts)
	if err != nil {
		return err
	}

	fs, results, err := runFiles(cmd.Context(), "checking", in, opts, !quiet && shouldUseTUI(mode, len(in.files)))
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: color, Context: 2}

	mismatched := 0
	for _, r := range results {
		report := diag.NewBag(0)
		lost := false
		for _, d := range r.Bag.Items() {
			switch {
			case d.Code == diag.ObsRoundTripMismatch || d.Code == diag.IOLoadFileError:
				lost = true
				report.Add(d)
			case showAll:
				report.Add(d)
			}
		}
		if lost {
			mismatched++
		}
		if report.Len() > 0 {
			diagfmt.Pretty(os.Stdout, report, fs, prettyOpts)
		}
		if !quiet {
			status := "ok"
			if lost {
				status = "FAIL"
			}
			fmt.Fprintf(os.Stdout, "%-4s %s\n", status, displayPath(fs, r, "auto"))
		}
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d file(s) checked, %d failed\n", len(results), mismatched)
	}
	timing.print(os.Stderr)

	if mismatched > 0 {
		return failSilently(cmd)
	}
	return nil
}
