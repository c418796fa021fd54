package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bsharp/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new B# project",
	Long: `Initialize a new B# project by creating a project manifest (bsharp.toml or
bsharp.yaml) and a sample source file (main.bs). If [path|name] is omitted,
initializes the current directory. A non-existing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("format", "toml", "manifest format (toml|yaml)")
	initCmd.Flags().String("name", "", "package name (default: directory name)")
	initCmd.Flags().Bool("force", false, "overwrite an existing manifest")
}

// runInit creates the manifest and main.bs in the target directory.
// Существующий манифест без --force: ошибка, существующий main.bs не трогаем.
func runInit(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	if !force {
		for _, manifestName := range project.ManifestNames {
			existing := filepath.Join(target, manifestName)
			if _, err := os.Stat(existing); err == nil {
				return fmt.Errorf("project already initialized: %s exists", existing)
			}
		}
	}
	if name == "" {
		name = project.NameFromDir(target)
	}
	manifest := project.Default(name)
	if !project.IsValidName(name) {
		return fmt.Errorf("%w: %q", project.ErrInvalidPackageName, name)
	}

	manifestPath, err := project.Write(target, manifest, format, force)
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.bs")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainBS(manifest.Package.Name)), 0o644); err != nil {
			return fmt.Errorf("failed to write main.bs: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized B# project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", filepath.Base(manifestPath))
	if createdMain {
		fmt.Fprintf(out, "  - main.bs\n")
	} else {
		fmt.Fprintf(out, "  - main.bs (existing)\n")
	}
	return nil
}

func defaultMainBS(name string) string {
	return fmt.Sprintf(`// %s: sample module
module Main {
  private int count = 0;

  public void tick() {
    count += 1;
  }
}
`, name)
}
