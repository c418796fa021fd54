package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/driver"
	"bsharp/internal/project"
)

// inputSet: что разбирать: один файл или список файлов под baseDir.
type inputSet struct {
	baseDir  string
	files    []string
	single   bool
	manifest project.Manifest
	// fromManifest: файлы взяты из [package].sources, аргумента не было
	fromManifest bool
}

// resolveInputs turns the positional argument into a file list. Without an
// argument the sources of the discovered project are used.
func resolveInputs(args []string) (inputSet, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return inputSet{}, err
		}
		m, found, err := project.Discover(wd)
		if err != nil {
			return inputSet{}, err
		}
		if !found {
			return inputSet{}, errors.New("no bsharp.toml found\nplease specify a file or directory, e.g.:\n  bsharp diag path/to/src")
		}
		files, err := manifestSources(m)
		if err != nil {
			return inputSet{}, err
		}
		return inputSet{baseDir: m.Root(), files: files, manifest: m, fromManifest: true}, nil
	}

	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return inputSet{}, fmt.Errorf("failed to stat path: %w", err)
	}
	startDir := path
	if !st.IsDir() {
		startDir = filepath.Dir(path)
	}
	m, _, err := project.Discover(startDir)
	if err != nil {
		return inputSet{}, err
	}
	if !st.IsDir() {
		return inputSet{baseDir: filepath.Dir(path), files: []string{path}, single: true, manifest: m}, nil
	}
	files, err := driver.ListSourceFiles(path)
	if err != nil {
		return inputSet{}, err
	}
	return inputSet{baseDir: path, files: files, manifest: m}, nil
}

// manifestSources собирает .bs файлы всех каталогов [package].sources.
// Файлы вне корня проекта отбрасываются.
func manifestSources(m project.Manifest) ([]string, error) {
	sources := m.Package.Sources
	if len(sources) == 0 {
		sources = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	for _, src := range sources {
		dir := src
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(m.Root(), dir)
		}
		list, err := driver.ListSourceFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range list {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return buildpipeline.FilterUnderRoot(files, m.Root()), nil
}

// driverOptions layers command-line flags over the manifest. Только явно
// заданные флаги перекрывают значения манифеста.
func driverOptions(cmd *cobra.Command, m project.Manifest) (driver.Options, error) {
	opts := driver.OptionsFromManifest(m)

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		if opts.Strict, err = cmd.Flags().GetBool("strict"); err != nil {
			return opts, fmt.Errorf("failed to get strict flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("max-errors"); f != nil && f.Changed {
		if opts.MaxErrors, err = cmd.Flags().GetInt("max-errors"); err != nil {
			return opts, fmt.Errorf("failed to get max-errors flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("jobs") != nil {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return opts, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}

	// кэш хранит только диагностики: команды, которым нужно дерево, флага не имеют
	cacheFlag := cmd.Flags().Lookup("cache")
	if cacheFlag == nil {
		return opts, nil
	}
	useCache := m.Cache.Enabled
	if cacheFlag.Changed {
		if useCache, err = cmd.Flags().GetBool("cache"); err != nil {
			return opts, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	clearCache := false
	if cmd.Flags().Lookup("clear-cache") != nil {
		if clearCache, err = cmd.Flags().GetBool("clear-cache"); err != nil {
			return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
		}
	}
	if !useCache && !clearCache {
		return opts, nil
	}
	cache, err := openCache(m)
	if err != nil {
		return opts, err
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return opts, fmt.Errorf("clear cache %s: %w", cache.Dir(), err)
		}
	}
	if useCache {
		opts.Cache = cache
	}
	return opts, nil
}

// openCache: каталог проекта, а без манифеста: пользовательский кэш.
func openCache(m project.Manifest) (*driver.DiskCache, error) {
	if m.Root() == "" {
		return driver.OpenUserCache("bsharp")
	}
	return driver.OpenDiskCache(m.CacheDir())
}
