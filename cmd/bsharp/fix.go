package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bsharp/internal/driver"
	"bsharp/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.bs|directory]",
	Short: "Apply suggested fixes from syntax diagnostics",
	Long: `Fix parses the inputs and applies the fixes attached to their diagnostics,
such as inserting a missing ';'. By default only the first fix is applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	fixCmd.Flags().String("id", "", "apply the fix with this id (see --list)")
	fixCmd.Flags().Bool("list", false, "list available fixes without applying them")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed sources instead of writing them")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if applyAll && targetID != "" {
		return errors.New("--all and --id cannot be used together")
	}

	in, err := resolveInputs(args)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, in.manifest)
	if err != nil {
		return err
	}
	// fixes есть только у мягкого разбора: strict останавливается на первой ошибке
	opts.Strict = false

	fs, results, err := driver.ParseFiles(cmd.Context(), in.baseDir, in.files, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	diagnostics := driver.MergeBags(results, 0).Items()
	out := cmd.OutOrStdout()

	if list {
		for _, f := range fix.List(diagnostics) {
			fmt.Fprintf(out, "%s\t%s\t%s\n", f.ID, f.Title, f.Message)
		}
		return nil
	}

	applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case applyAll:
		applyOpts.Mode = fix.ApplyModeAll
	case targetID != "":
		applyOpts.Mode = fix.ApplyModeID
		applyOpts.TargetID = targetID
	}

	res, err := fix.Apply(fs, diagnostics, applyOpts)
	for _, s := range res.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.ID, s.Reason)
	}
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(out, "no applicable fixes found")
		return nil
	}
	if err != nil {
		return err
	}

	for _, a := range res.Applied {
		fmt.Fprintf(out, "applied %s: %s (%s)\n", a.ID, a.Title, a.PrimaryPath)
	}
	for _, change := range res.FileChanges {
		if dryRun {
			fmt.Fprintf(out, "== %s ==\n%s", change.Path, change.Content)
			continue
		}
		fmt.Fprintf(out, "updated %s (%d edit(s))\n", change.Path, change.EditCount)
	}
	return nil
}
