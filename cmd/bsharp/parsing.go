package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bsharp/internal/diagfmt"
	"bsharp/internal/driver"
	"bsharp/internal/parser"
	"bsharp/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file.bs|directory]",
	Short: "Parse B# sources and output the syntax tree",
	Long: `Parse analyzes a B# source file or all *.bs files in a directory and outputs
their syntax trees. Without an argument the sources of the current project are parsed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
	parseCmd.Flags().Bool("strict", false, "stop at the first syntax error")
	parseCmd.Flags().Int("max-errors", 0, "stop after this many syntax errors per file (0=unlimited)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	parseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	parseCmd.Flags().Bool("trivia", false, "include whitespace and comment tokens in the tree")
	parseCmd.Flags().Bool("positions", false, "print line:col ranges")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	positions, err := cmd.Flags().GetBool("positions")
	if err != nil {
		return fmt.Errorf("failed to get positions flag: %w", err)
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
	timing, err := newTimingCollector(cmd, &opts)
	if err != nil {
		return err
	}

	fs, results, err := runFiles(cmd.Context(), "parsing", in, opts, !quiet && shouldUseTUI(mode, len(in.files)))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: color, Context: 2}
	failed := false
	for _, r := range results {
		if r.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, r.Bag, fs, prettyOpts)
		}
		// strict: дерева нет, объясняем почему
		if se, ok := r.SyntaxError(); ok {
			fmt.Fprintln(os.Stderr, strictStopMessage(se))
		}
		failed = failed || r.HasErrors()
	}

	astOpts := diagfmt.ASTOpts{Trivia: trivia, Positions: positions}
	if err := writeTrees(os.Stdout, format, fs, results, astOpts, in.single || quiet); err != nil {
		return err
	}
	timing.print(os.Stderr)

	if failed {
		return failSilently(cmd)
	}
	return nil
}

func strictStopMessage(se *parser.SyntaxError) string {
	msg := fmt.Sprintf("%s:%d:%d: parsing stopped at %q (strict mode)", se.Path, se.Pos.Line, se.Pos.Col, se.Found.Text)
	if len(se.Expected) > 0 {
		msg += ", expected " + se.ExpectedList()
	}
	return msg
}

// writeTrees печатает деревья всех файлов; tree: подряд с заголовками,
// json/yaml: один объект path -> tree.
func writeTrees(w io.Writer, format string, fs *source.FileSet, results []driver.FileResult, opts diagfmt.ASTOpts, bare bool) error {
	if format == "tree" {
		for idx, r := range results {
			if !bare {
				if idx > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "== %s ==\n", displayPath(fs, r, "auto"))
			}
			if r.Parse.Root == nil && len(r.Parse.Trailing) == 0 {
				continue
			}
			if err := diagfmt.FormatASTTree(w, r.Parse.Root, r.Parse.Trailing, fs, opts); err != nil {
				return err
			}
		}
		return nil
	}

	if bare && len(results) == 1 {
		r := results[0]
		if format == "json" {
			return diagfmt.FormatASTJSON(w, r.Parse.Root, r.Parse.Trailing, fs, opts)
		}
		return diagfmt.FormatASTYAML(w, r.Parse.Root, r.Parse.Trailing, fs, opts)
	}

	output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
	for _, r := range results {
		path := displayPath(fs, r, "auto")
		if r.Parse.Root == nil {
			output[path] = nil
			continue
		}
		node := diagfmt.BuildASTOutput(r.Parse.Root, r.Parse.Trailing, fs, opts)
		output[path] = &node
	}
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

func displayPath(fs *source.FileSet, r driver.FileResult, mode string) string {
	if f := fs.Get(r.FileID); f != nil && r.Path != "" {
		return f.FormatPath(mode, fs.BaseDir())
	}
	return r.Path
}

// failSilently: диагностики уже напечатаны, cobra не должна печатать usage и ошибку.
func failSilently(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errSilent
}
