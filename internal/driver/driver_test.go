package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"bsharp/internal/buildpipeline"
	"bsharp/internal/diag"
	"bsharp/internal/observ"
	"bsharp/internal/source"
	"bsharp/internal/testkit"
)

const (
	validSrc  = "implements Base;\nmodule M {\n  public int x = 1;\n  private void f() { x += 2; }\n}\n"
	brokenSrc = "module M {\n  public int x\n  public int y;\n}\n"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTokenize(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.bs", "int x = @;")
	res, err := Tokenize(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var text string
	for _, tok := range res.Tokens {
		text += tok.Text
	}
	if text != "int x = @;" {
		t.Errorf("tokens cover %q", text)
	}
	if got := codes(res.Bag); !slices.Equal(got, []diag.Code{diag.LexUnexpectedSymbol}) {
		t.Errorf("diagnostics = %v", got)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	_, err := Tokenize(context.Background(), filepath.Join(t.TempDir(), "nope.bs"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestParseValidAndBroken(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	ok, err := Parse(ctx, writeSource(t, dir, "ok.bs", validSrc), Options{RoundTrip: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ok.HasErrors() || ok.Parse.Root == nil {
		t.Errorf("valid file: errors %v root %v", codes(ok.Bag), ok.Parse.Root)
	}

	broken, err := Parse(ctx, writeSource(t, dir, "broken.bs", brokenSrc), Options{RoundTrip: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := codes(broken.Bag); !slices.Equal(got, []diag.Code{diag.SynExpectSemicolon}) {
		t.Errorf("broken file diagnostics = %v (round trip must hold)", got)
	}

	for _, r := range []*ParseResult{ok, broken} {
		if err := testkit.CheckTreeInvariants(r.Parse.Root, r.Parse.Trailing, r.File); err != nil {
			t.Errorf("%s: %v", r.Path, err)
		}
	}
}

func TestParseStrict(t *testing.T) {
	path := writeSource(t, t.TempDir(), "broken.bs", brokenSrc)
	res, err := Parse(context.Background(), path, Options{Strict: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	se, ok := res.SyntaxError()
	if !ok {
		t.Fatalf("expected *parser.SyntaxError, got %v", res.Err)
	}
	if se.Code != diag.SynExpectSemicolon || res.Parse.Root != nil || res.Bag.Len() != 1 {
		t.Errorf("strict result: code %v root %v diags %d", se.Code, res.Parse.Root, res.Bag.Len())
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.bs", brokenSrc)
	writeSource(t, dir, "a.bs", validSrc)
	writeSource(t, dir, "sub/c.bs", "private int z;")
	writeSource(t, dir, "notes.txt", "not a source")
	writeSource(t, dir, ".bsharp/cache/old.bs", "ignored")

	var sink buildpipeline.CollectSink
	timer := observ.NewTimer()
	fs, results, err := ParseDir(context.Background(), dir, Options{Jobs: 2, Progress: &sink, Timer: timer})
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}

	var names []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		names = append(names, filepath.ToSlash(rel))
	}
	if want := []string{"a.bs", "b.bs", "sub/c.bs"}; !slices.Equal(names, want) {
		t.Fatalf("files = %v, want %v", names, want)
	}
	if results[0].HasErrors() || !results[1].HasErrors() || results[2].HasErrors() {
		t.Errorf("unexpected error flags: %v %v %v", results[0].HasErrors(), results[1].HasErrors(), results[2].HasErrors())
	}
	if fs.Len() != 3 {
		t.Errorf("FileSet holds %d files", fs.Len())
	}

	merged := MergeBags(results, 0)
	if got := codes(merged); !slices.Equal(got, []diag.Code{diag.SynExpectSemicolon}) {
		t.Errorf("merged = %v", got)
	}

	terminal := 0
	for _, ev := range sink.Events() {
		if ev.File != "" && ev.Status.Terminal() {
			terminal++
		}
	}
	if terminal != 3 {
		t.Errorf("expected 3 terminal events, got %d", terminal)
	}
	if r := timer.Report(); len(r.Phases) == 0 {
		t.Errorf("timer recorded nothing")
	}
}

func TestParseFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.bs", validSrc)
	missing := filepath.Join(dir, "missing.bs")

	fs, results, err := ParseFiles(context.Background(), dir, []string{good, missing}, Options{})
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if results[0].HasErrors() {
		t.Errorf("good file has errors: %v", codes(results[0].Bag))
	}
	if got := codes(results[1].Bag); !slices.Equal(got, []diag.Code{diag.IOLoadFileError}) {
		t.Errorf("missing file diagnostics = %v", got)
	}
	d := results[1].Bag.Items()[0]
	if f := fs.Get(d.Primary.File); f == nil || filepath.Base(f.Path) != "missing.bs" {
		t.Errorf("load error points to %+v", f)
	}
}

func TestParseDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.bs", validSrc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ParseDir(ctx, dir, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.bs", brokenSrc)
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}

	_, first, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached flags: first %v second %v", first[0].Cached, second[0].Cached)
	}
	a, b := first[0].Bag.Items(), second[0].Bag.Items()
	if len(a) != len(b) {
		t.Fatalf("cached diagnostics differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Primary != b[i].Primary || a[i].Message != b[i].Message ||
			!slices.Equal(a[i].Expected, b[i].Expected) || len(a[i].Fixes) != len(b[i].Fixes) {
			t.Errorf("diagnostic %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}

	// strict меняет ключ кэша
	_, strict, err := ParseDir(context.Background(), dir, Options{Cache: cache, Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if strict[0].Cached {
		t.Errorf("strict run must not reuse lenient results")
	}
}

// Кэш хранит полный список диагностик: запуск с --max-diagnostics 1 не
// должен урезать результат последующего запуска без лимита.
func TestCacheIgnoresDiagnosticLimit(t *testing.T) {
	path := writeSource(t, t.TempDir(), "noisy.bs", "module M { @ @ @ }")
	ctx := context.Background()

	fresh, err := Parse(ctx, path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Bag.Len() < 3 {
		t.Fatalf("fresh parse: %d diagnostics, want at least 3", fresh.Bag.Len())
	}

	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	limited, err := Parse(ctx, path, Options{Cache: cache, MaxDiagnostics: 1})
	if err != nil {
		t.Fatal(err)
	}
	if limited.Cached || limited.Bag.Len() != 1 {
		t.Fatalf("limited run: cached=%v, %d diagnostics", limited.Cached, limited.Bag.Len())
	}

	full, err := Parse(ctx, path, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !full.Cached {
		t.Fatal("second run must be served from the cache")
	}
	if !slices.Equal(codes(full.Bag), codes(fresh.Bag)) {
		t.Errorf("cached codes %v, fresh %v", codes(full.Bag), codes(fresh.Bag))
	}

	// и наоборот: лимит применяется к данным из кэша
	again, err := Parse(ctx, path, Options{Cache: cache, MaxDiagnostics: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !again.Cached || again.Bag.Len() != 2 {
		t.Errorf("limited cached run: cached=%v, %d diagnostics", again.Cached, again.Bag.Len())
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.bs", []byte(brokenSrc)))
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := cacheKey(file, Options{})
	cache.Store(ctx, key, NewPayload(file, nil))
	if _, ok := cache.Lookup(ctx, key); !ok {
		t.Fatal("stored entry not found")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Lookup(ctx, key); ok {
		t.Error("entry survived DropAll")
	}
	entries, err := os.ReadDir(filepath.Dir(cache.Dir()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cache" {
		t.Errorf("leftovers next to the cache: %v", entries)
	}

	// кэш остаётся рабочим
	cache.Store(ctx, key, NewPayload(file, nil))
	if _, ok := cache.Lookup(ctx, key); !ok {
		t.Error("cache unusable after DropAll")
	}
}

func TestDiskCacheRejectsUnknownSeverity(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.bs", []byte(brokenSrc)))
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	payload := NewPayload(file, []diag.Diagnostic{
		diag.NewError(diag.SynExpectSemicolon, source.Span{File: file.ID, Start: 1, End: 1}, "expected ';'"),
	})
	payload.Diagnostics[0].Severity = 9
	key := cacheKey(file, Options{})
	cache.Store(context.Background(), key, payload)
	if _, ok := cache.Lookup(context.Background(), key); ok {
		t.Error("payload with an unknown severity must count as a miss")
	}
}

// Потеря байтов при round-trip не вытесняется лимитом диагностик.
func TestLimitDiagnosticsKeepsMismatches(t *testing.T) {
	at := func(off uint32) source.Span { return source.Span{File: 1, Start: off, End: off + 1} }
	mismatch := diag.NewError(diag.ObsRoundTripMismatch, at(7), "syntax tree differs from the source")
	var rest []diag.Diagnostic
	for _, off := range []uint32{1, 3, 5, 9} {
		rest = append(rest, diag.NewError(diag.LexUnexpectedSymbol, at(off), "unexpected symbol '@'"))
	}

	bag := limitDiagnostics(2, []diag.Diagnostic{mismatch}, rest)
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(items))
	}
	if items[0].Primary.Start != 1 || items[1].Code != diag.ObsRoundTripMismatch {
		t.Errorf("items = %v", codes(bag))
	}

	if got := limitDiagnostics(0, nil, rest).Len(); got != len(rest) {
		t.Errorf("unlimited bag kept %d of %d", got, len(rest))
	}
}

func TestCheckRoundTripReportsMismatch(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("rt.bs", []byte("module M {}")))
	res := ParseSource(context.Background(), file, Options{RoundTrip: true})
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", codes(res.Bag))
	}

	// испорченный поток токенов
	tokens := slices.Clone(res.Tokens)
	tokens[0].Text = "modulx"
	got := CheckRoundTrip(file, tokens, res.Parse)
	if len(got) != 1 || got[0].Code != diag.ObsRoundTripMismatch || got[0].Primary.Start != 5 {
		t.Errorf("mismatch diagnostics = %+v", got)
	}
}

func TestMergeBagsDropsRepeats(t *testing.T) {
	sp := source.Span{File: 1, Start: 3, End: 4}
	a := diag.NewBag(0)
	a.Add(diag.NewError(diag.SynExpectSemicolon, sp, "expected ';'"))
	a.Add(diag.NewError(diag.SynExpectSemicolon, sp, "expected ';'"))
	b := diag.NewBag(0)
	b.Add(diag.NewError(diag.SynExpectSemicolon, source.Span{File: 0, Start: 9, End: 9}, "expected ';'"))

	merged := MergeBags([]FileResult{{Bag: a}, {Bag: b}, {}}, 0)
	items := merged.Items()
	if len(items) != 2 {
		t.Fatalf("merged %d diagnostics, want 2", len(items))
	}
	if items[0].Primary.File != 0 || items[1].Primary.File != 1 {
		t.Errorf("merged order = %v, %v", items[0].Primary, items[1].Primary)
	}
}
