package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bsharp/internal/diag"
	"bsharp/internal/source"
)

const missingSemicolonSrc = "module M {\n  public int x\n}\n"

// missingSemicolonBag строит типичную диагностику парсера:
// пропущенная ';' после поля, заметка на '{' и fix-вставка.
func missingSemicolonBag(fs *source.FileSet, path string) *diag.Bag {
	fileID := fs.AddVirtual(path, []byte(missingSemicolonSrc))
	at := source.Span{File: fileID, Start: 25, End: 25}
	d := diag.NewError(diag.SynExpectSemicolon, at, "expected ';', found '}'").
		WithExpected(";", ",", "=").
		WithNote(source.Span{File: fileID, Start: 9, End: 10}, "'{' opened here").
		WithFix("insert ';'", diag.FixEdit{Span: at, NewText: ";"})
	bag := diag.NewBag(10)
	bag.Add(d)
	return bag
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	bag := missingSemicolonBag(fs, "/home/user/project/src/test.bs")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.bs:2:15"},
		{"Relative path", PathModeRelative, "src/test.bs:2:15"},
		{"Basename only", PathModeBasename, "test.bs:2:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "SYN2002", "expected ';', found '}'"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output:\n%s", want, output)
				}
			}
		})
	}

	if mode := PathModeBasename; mode.String() != "basename" || ParsePathMode("basename") != mode {
		t.Errorf("basename mode does not round trip")
	}
	if ParsePathMode("bogus") != PathModeAuto {
		t.Errorf("unknown mode should fall back to auto")
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := missingSemicolonBag(fs, "test.bs")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")

	want := []string{
		"test.bs:2:15: ERROR SYN2002: expected ';', found '}'",
		" 1 | module M {",
		" 2 |   public int x",
		"   | " + strings.Repeat(" ", 14) + "^",
		"  = expected: ';', ',', '='",
	}
	if len(lines) < len(want) {
		t.Fatalf("output too short:\n%s", buf.String())
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], w)
		}
	}
	// без ShowNotes/ShowFixes ни заметок, ни исправлений
	if strings.Contains(buf.String(), "note:") || strings.Contains(buf.String(), "fix #") {
		t.Errorf("notes and fixes must be hidden by default:\n%s", buf.String())
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	bag := missingSemicolonBag(fs, "test.bs")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"note: test.bs:1:10: '{' opened here",
		"fix #1: insert ';'",
		`edit test.bs:2:15-2:15 apply=";"`,
		"preview (insert):",
		"      -   public int x\n",
		"      +   public int x;\n        " + strings.Repeat(" ", 14) + "^\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag := missingSemicolonBag(fs, "test.bs")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape sequences")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape sequences")
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	src := "module M { // 日本\n  ?\n}\n"
	fileID := fs.AddVirtual("wide.bs", []byte(src))
	// "日本" занимает 4 колонки, caret должен учитывать ширину
	start := uint32(strings.Index(src, "日"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexUnexpectedSymbol, source.Span{File: fileID, Start: start, End: start + 6}, "wide"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	wantCaret := "   | " + strings.Repeat(" ", 14) + "^~~~"
	if lines[2] != wantCaret {
		t.Errorf("caret line:\n got %q\nwant %q", lines[2], wantCaret)
	}
}
