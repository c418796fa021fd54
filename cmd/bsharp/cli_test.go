package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"bsharp/internal/diagfmt"
	"bsharp/internal/driver"
	"bsharp/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testCommand повторяет флаги parse/diag на свежем дереве команд.
func testCommand(withCache bool) *cobra.Command {
	root := &cobra.Command{Use: "bsharp"}
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	child := &cobra.Command{Use: "diag"}
	child.Flags().Bool("strict", false, "")
	child.Flags().Int("max-errors", 0, "")
	child.Flags().Int("jobs", 0, "")
	if withCache {
		child.Flags().Bool("cache", false, "")
		child.Flags().Bool("clear-cache", false, "")
	}
	root.AddCommand(child)
	return child
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeAuto, 1) || !shouldUseTUI(uiModeOn, 1) || shouldUseTUI(uiModeOff, 5) {
		t.Errorf("unexpected shouldUseTUI decisions")
	}
}

func TestDriverOptionsFlagsOverrideManifest(t *testing.T) {
	m := project.Default("demo")
	m.Parse.Strict = true
	m.Parse.MaxErrors = 7

	cmd := testCommand(false)
	opts, err := driverOptions(cmd, m)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Strict || opts.MaxErrors != 7 || opts.MaxDiagnostics != 100 || opts.Cache != nil {
		t.Errorf("manifest values not applied: %+v", opts)
	}

	cmd = testCommand(false)
	if err := cmd.Flags().Set("strict", "false"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("max-errors", "3"); err != nil {
		t.Fatal(err)
	}
	opts, err = driverOptions(cmd, m)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Strict || opts.MaxErrors != 3 {
		t.Errorf("flags must override manifest: %+v", opts)
	}
}

func TestDriverOptionsCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bsharp.toml"), "[package]\nname = \"demo\"\n\n[cache]\nenabled = true\n")
	m, err := project.Load(filepath.Join(dir, "bsharp.toml"))
	if err != nil {
		t.Fatal(err)
	}

	opts, err := driverOptions(testCommand(true), m)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Cache == nil || opts.Cache.Dir() != filepath.Join(dir, project.DefaultCacheDir) {
		t.Fatalf("cache = %+v", opts.Cache)
	}

	// команда без --cache кэш не открывает
	opts, err = driverOptions(testCommand(false), m)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Cache != nil {
		t.Errorf("parse must not use the cache")
	}

	cmd := testCommand(true)
	if err := cmd.Flags().Set("cache", "false"); err != nil {
		t.Fatal(err)
	}
	if opts, _ = driverOptions(cmd, m); opts.Cache != nil {
		t.Errorf("--cache=false must win over the manifest")
	}
}

func TestDriverOptionsClearCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bsharp.toml"), "[package]\nname = \"demo\"\n")
	m, err := project.Load(filepath.Join(dir, "bsharp.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cache, err := driver.OpenDiskCache(m.CacheDir())
	if err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cache.Dir(), "stale.mp")
	writeFile(t, stale, "x")

	// --clear-cache без --cache: кэш очищается, но не используется
	cmd := testCommand(true)
	if err := cmd.Flags().Set("clear-cache", "true"); err != nil {
		t.Fatal(err)
	}
	opts, err := driverOptions(cmd, m)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Cache != nil {
		t.Errorf("cache must stay off without --cache")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale entry survived --clear-cache: %v", err)
	}
	if info, err := os.Stat(cache.Dir()); err != nil || !info.IsDir() {
		t.Errorf("cache dir must be recreated: %v", err)
	}
}

func TestManifestSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bsharp.toml"), "[package]\nname = \"demo\"\nsources = [\"src\", \"lib\", \"src\"]\n")
	writeFile(t, filepath.Join(dir, "src", "a.bs"), "module A { }")
	writeFile(t, filepath.Join(dir, "lib", "b.bs"), "module B { }")
	writeFile(t, filepath.Join(dir, "other", "c.bs"), "module C { }")

	m, err := project.Load(filepath.Join(dir, "bsharp.toml"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := manifestSources(m)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if want := []string{"a.bs", "b.bs"}; !slices.Equal(names, want) {
		t.Errorf("sources = %v, want %v", names, want)
	}
}

func TestManifestSourcesOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "proj")
	writeFile(t, filepath.Join(root, "bsharp.toml"), "[package]\nname = \"demo\"\nsources = [\"src\", \"../shared\"]\n")
	writeFile(t, filepath.Join(root, "src", "a.bs"), "module A { }")
	writeFile(t, filepath.Join(dir, "shared", "s.bs"), "module S { }")

	m, err := project.Load(filepath.Join(root, "bsharp.toml"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := manifestSources(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.bs" {
		t.Errorf("sources outside the project must be dropped, got %v", files)
	}
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "one.bs")
	writeFile(t, file, "module M { }")
	writeFile(t, filepath.Join(dir, "nested", "two.bs"), "module N { }")

	in, err := resolveInputs([]string{file})
	if err != nil {
		t.Fatal(err)
	}
	if !in.single || len(in.files) != 1 || in.manifest.Path != "" {
		t.Errorf("file input = %+v", in)
	}

	in, err = resolveInputs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if in.single || len(in.files) != 2 || in.baseDir != dir {
		t.Errorf("dir input = %+v", in)
	}

	if _, err := resolveInputs([]string{filepath.Join(dir, "missing.bs")}); err == nil {
		t.Errorf("expected an error for a missing path")
	}
}

func TestWriteTrees(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bs")
	b := filepath.Join(dir, "b.bs")
	writeFile(t, a, "module A { }")
	writeFile(t, b, "module B { public int x; }")

	fs, results, err := driver.ParseFiles(context.Background(), dir, []string{a, b}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var tree bytes.Buffer
	if err := writeTrees(&tree, "tree", fs, results, diagfmt.ASTOpts{}, false); err != nil {
		t.Fatal(err)
	}
	out := tree.String()
	if !strings.Contains(out, "a.bs ==\n") || !strings.Contains(out, "b.bs ==\n") || !strings.Contains(out, "FieldDeclaration") {
		t.Errorf("tree output:\n%s", out)
	}

	var js bytes.Buffer
	if err := writeTrees(&js, "json", fs, results, diagfmt.ASTOpts{}, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"type": "CompilationUnit"`) {
		t.Errorf("json output:\n%s", js.String())
	}

	var y bytes.Buffer
	if err := writeTrees(&y, "yaml", fs, results[:1], diagfmt.ASTOpts{}, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(y.String(), "type: ModuleDeclaration") {
		t.Errorf("yaml output:\n%s", y.String())
	}
}

func TestStrictStopMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strict.bs")
	writeFile(t, path, "module M {\npublic int x\npublic int y;\n}")

	res, err := driver.Parse(context.Background(), path, driver.Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	se, ok := res.SyntaxError()
	if !ok {
		t.Fatalf("no strict error: %v", res.Err)
	}
	msg := strictStopMessage(se)
	if !strings.Contains(msg, ":2:13: parsing stopped at \"public\" (strict mode), expected ';'") {
		t.Errorf("message = %q", msg)
	}

	se.Expected = nil
	if strings.Contains(strictStopMessage(se), "expected") {
		t.Errorf("empty expected list leaked into %q", strictStopMessage(se))
	}
}

func TestInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "demo-app")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", target})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), "bsharp.toml") {
		t.Errorf("output: %s", out.String())
	}

	m, err := project.Load(filepath.Join(target, "bsharp.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Package.Name != "demo_app" {
		t.Errorf("package name = %q", m.Package.Name)
	}

	res, err := driver.Parse(context.Background(), filepath.Join(target, "main.bs"), driver.Options{RoundTrip: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() {
		t.Errorf("sample source has diagnostics: %v", res.Bag.Items())
	}

	// повторный init без --force
	rootCmd.SetArgs([]string{"init", target})
	if err := rootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second init: %v", err)
	}
}
