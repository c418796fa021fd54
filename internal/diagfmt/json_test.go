package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"bsharp/internal/diag"
	"bsharp/internal/lexer"
	"bsharp/internal/parser"
	"bsharp/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag := missingSemicolonBag(fs, "test.bs")

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SYN2002" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Location.File != "test.bs" || d.Location.StartLine != 2 || d.Location.StartCol != 15 {
		t.Errorf("unexpected location %+v", d.Location)
	}
	if strings.Join(d.Expected, " ") != "; , =" {
		t.Errorf("expected list = %v", d.Expected)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartCol != 10 {
		t.Errorf("unexpected notes %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("unexpected fixes %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != ";" || edit.OldText != "" || edit.Kind != "insert" {
		t.Errorf("edit = %+v", edit)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != "  public int x;" {
		t.Errorf("after lines = %q", edit.AfterLines)
	}
}

func TestJSONOptionsTrimOutput(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("many.bs", []byte("module M { ? ? ? }"))
	bag := diag.NewBag(10)
	for _, off := range []uint32{11, 13, 15} {
		bag.Add(diag.NewError(diag.LexUnexpectedSymbol, source.Span{File: fileID, Start: off, End: off + 1}, "unexpected symbol '?'").
			WithNote(source.Span{File: fileID, Start: 9, End: 10}, "inside module"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2, PathMode: PathModeBasename})
	if out.Count != 2 {
		t.Errorf("Max=2 should keep two diagnostics, got %d", out.Count)
	}
	for _, d := range out.Diagnostics {
		if d.Notes != nil {
			t.Errorf("notes must be omitted without IncludeNotes")
		}
		if d.Location.StartLine != 0 {
			t.Errorf("positions must be omitted without IncludePositions")
		}
	}
}

func parseForDump(t *testing.T, src string) (parser.Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("dump.bs", []byte(src)))
	res := parser.ParseFile(context.Background(), file, lexer.New(file, lexer.Options{}), parser.Options{})
	if res.Err != nil {
		t.Fatalf("parse: %v", res.Err)
	}
	return res, fs
}

func TestFormatASTTree(t *testing.T) {
	res, fs := parseForDump(t, "module M { public int x; }")

	var buf bytes.Buffer
	if err := FormatASTTree(&buf, res.Root, res.Trailing, fs, ASTOpts{}); err != nil {
		t.Fatalf("FormatASTTree: %v", err)
	}
	want := strings.Join([]string{
		"CompilationUnit",
		"└─ ModuleDeclaration",
		`   ├─ KwModule "module"`,
		`   ├─ Identifier "M"`,
		`   ├─ OpenBrace "{"`,
		"   ├─ FieldDeclaration",
		`   │  ├─ KwPublic "public"`,
		"   │  ├─ VariableDeclaration",
		"   │  │  ├─ PredefinedType",
		`   │  │  │  └─ KwInt "int"`,
		"   │  │  └─ VariableDeclarator",
		`   │  │     └─ Identifier "x"`,
		`   │  └─ Semicolon ";"`,
		`   └─ CloseBrace "}"`,
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("tree mismatch:\n got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatASTTreeTrivia(t *testing.T) {
	res, fs := parseForDump(t, "module M {}")
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, res.Root, res.Trailing, fs, ASTOpts{Trivia: true, Positions: true}); err != nil {
		t.Fatalf("FormatASTTree: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `Whitespace " " @1:7-1:8`) {
		t.Errorf("trivia leaf with position missing:\n%s", out)
	}
	if !strings.Contains(out, "ModuleDeclaration @1:1-1:12") {
		t.Errorf("node position missing:\n%s", out)
	}
}

func TestFormatASTJSONAndYAML(t *testing.T) {
	res, fs := parseForDump(t, "module M { public int f() { return 1 + 2; } }")

	var jsonBuf bytes.Buffer
	if err := FormatASTJSON(&jsonBuf, res.Root, res.Trailing, fs, ASTOpts{}); err != nil {
		t.Fatalf("FormatASTJSON: %v", err)
	}
	var fromJSON ASTNodeOutput
	if err := json.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	var yamlBuf bytes.Buffer
	if err := FormatASTYAML(&yamlBuf, res.Root, res.Trailing, fs, ASTOpts{}); err != nil {
		t.Fatalf("FormatASTYAML: %v", err)
	}
	var fromYAML ASTNodeOutput
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}

	for name, tree := range map[string]ASTNodeOutput{"json": fromJSON, "yaml": fromYAML} {
		if tree.Type != "File" || len(tree.Children) != 1 || tree.Children[0].Type != "CompilationUnit" {
			t.Errorf("%s: unexpected root %+v", name, tree)
		}
		if !containsType(tree, "BinaryExpression") {
			t.Errorf("%s: BinaryExpression not found", name)
		}
	}
}

func containsType(n ASTNodeOutput, typ string) bool {
	if n.Type == typ {
		return true
	}
	for _, c := range n.Children {
		if containsType(c, typ) {
			return true
		}
	}
	return false
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("tok.bs", []byte("int x = 0b00000101;")))
	all := slices.Collect(lexer.New(file, lexer.Options{}).Tokens())

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, all, fs, false); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	out := pretty.String()
	if strings.Contains(out, "Whitespace") {
		t.Errorf("trivia must be hidden:\n%s", out)
	}
	if !strings.Contains(out, "value=5") {
		t.Errorf("byte literal value missing:\n%s", out)
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, all, true); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	var text strings.Builder
	for _, tok := range decoded {
		text.WriteString(tok.Text)
	}
	if text.String() != "int x = 0b00000101;" {
		t.Errorf("tokens do not cover the input: %q", text.String())
	}
}
