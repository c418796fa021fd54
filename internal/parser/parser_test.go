package parser

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/lexer"
	"bsharp/internal/source"
)

// parseSource разбирает строку как файл test.bs
func parseSource(t *testing.T, src string, opts Options) Result {
	t.Helper()
	return parseSourceCtx(t, context.Background(), src, opts)
}

func parseSourceCtx(t *testing.T, ctx context.Context, src string, opts Options) Result {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.bs", []byte(src)))
	lx := lexer.New(file, lexer.Options{})
	return ParseFile(ctx, file, lx, opts)
}

// treeText склеивает текст корня и хвостовых элементов.
func treeText(res Result) string {
	var b strings.Builder
	if res.Root != nil {
		b.WriteString(ast.Text(res.Root))
	}
	for tok := range ast.ElementTokens(res.Trailing) {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func syntaxCodes(res Result) []diag.Code {
	out := make([]diag.Code, 0, len(res.Syntax))
	for _, d := range res.Syntax {
		out = append(out, d.Code)
	}
	return out
}

func expectNoSyntaxErrors(t *testing.T, res Result) {
	t.Helper()
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	for _, d := range res.Syntax {
		t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
	}
}

func TestParseCompilationUnit(t *testing.T) {
	src := "implements Foo.Bar;\nmodule M {\npublic int x;\n}"
	res := parseSource(t, src, Options{})
	expectNoSyntaxErrors(t, res)

	cu, ok := res.Root.(*ast.CompilationUnit)
	if !ok {
		t.Fatalf("root is %T, want *ast.CompilationUnit", res.Root)
	}
	if len(cu.Implements) != 1 || cu.Implements[0].QualifiedName() != "Foo.Bar" {
		t.Fatalf("implements = %+v", cu.Implements)
	}
	if cu.Module == nil || cu.Module.Name.Text != "M" {
		t.Fatalf("module = %+v", cu.Module)
	}
	if len(cu.Module.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(cu.Module.Members))
	}
	field, ok := cu.Module.Members[0].(*ast.FieldDeclaration)
	if !ok {
		t.Fatalf("member is %T, want *ast.FieldDeclaration", cu.Module.Members[0])
	}
	if field.Modifier.Text != "public" || field.Declaration.Type.Keyword.Text != "int" {
		t.Errorf("field = %q %q", field.Modifier.Text, field.Declaration.Type.Keyword.Text)
	}
	if got := field.Declaration.Declarators[0].Name.Text; got != "x" {
		t.Errorf("declarator name = %q, want x", got)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

// Грамматика требует хотя бы одну директиву implements; модуль без неё
// принимается как расширение: CompilationUnit с пустым Implements.
func TestParseModuleWithoutImplementsExtension(t *testing.T) {
	for _, opts := range []Options{{}, {Strict: true}} {
		res := parseSource(t, "module Empty { }", opts)
		expectNoSyntaxErrors(t, res)
		cu, ok := res.Root.(*ast.CompilationUnit)
		if !ok || cu.Module == nil || len(cu.Module.Members) != 0 {
			t.Fatalf("strict=%v: unexpected root %#v", opts.Strict, res.Root)
		}
		if len(cu.Implements) != 0 {
			t.Errorf("strict=%v: implements = %d, want none", opts.Strict, len(cu.Implements))
		}
	}
}

func TestParseFieldDeclarators(t *testing.T) {
	res := parseSource(t, "public int x, y = 0;", Options{})
	expectNoSyntaxErrors(t, res)

	field, ok := res.Root.(*ast.FieldDeclaration)
	if !ok {
		t.Fatalf("root is %T, want *ast.FieldDeclaration", res.Root)
	}
	decls := field.Declaration.Declarators
	if len(decls) != 2 {
		t.Fatalf("declarators = %d, want 2", len(decls))
	}
	if decls[0].Name.Text != "x" || decls[0].Initializer != nil {
		t.Errorf("first declarator = %q init=%v", decls[0].Name.Text, decls[0].Initializer)
	}
	init := decls[1].Initializer
	if decls[1].Name.Text != "y" || init == nil {
		t.Fatalf("second declarator = %q init=%v", decls[1].Name.Text, init)
	}
	if init.Assign != ast.AssignConstant || init.Target != nil {
		t.Errorf("initializer assign=%v target=%v", init.Assign, init.Target)
	}
	lit, ok := init.Value.(*ast.LiteralExpression)
	if !ok || lit.Token.Text != "0" {
		t.Errorf("initializer value = %#v", init.Value)
	}
	if field.Semicolon == nil {
		t.Error("missing semicolon token")
	}
}

func TestParseArrayField(t *testing.T) {
	res := parseSource(t, "my int[4] xs;", Options{})
	expectNoSyntaxErrors(t, res)
	field := res.Root.(*ast.FieldDeclaration)
	rank := field.Declaration.Type.Rank
	if rank == nil {
		t.Fatal("expected array rank")
	}
	if lit, ok := rank.Size.(*ast.LiteralExpression); !ok || lit.Token.Text != "4" {
		t.Errorf("rank size = %#v", rank.Size)
	}
}

func TestParseMethod(t *testing.T) {
	src := "public int add(int a, int b) {\n  return a + b;\n}"
	res := parseSource(t, src, Options{})
	expectNoSyntaxErrors(t, res)

	m, ok := res.Root.(*ast.MethodDeclaration)
	if !ok {
		t.Fatalf("root is %T, want *ast.MethodDeclaration", res.Root)
	}
	if m.Name.Text != "add" || m.ReturnType.Keyword.Text != "int" {
		t.Errorf("method = %s %s", m.ReturnType.Keyword.Text, m.Name.Text)
	}
	if len(m.Parameters.Parameters) != 2 {
		t.Fatalf("parameters = %d, want 2", len(m.Parameters.Parameters))
	}
	if got := m.Parameters.Parameters[1].Name.Text; got != "b" {
		t.Errorf("second parameter = %q", got)
	}
	if len(m.Body.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(m.Body.Statements))
	}
	ret, ok := m.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("statement is %T", m.Body.Statements[0])
	}
	if _, ok := ret.Value.(*ast.BinaryExpression); !ok {
		t.Errorf("return value is %T, want binary", ret.Value)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestParseStatements(t *testing.T) {
	src := `public void run(int n) {
    var i = 0;
    while (i < n) {
        if (i == 3) break; else i += 1;
    }
    print(i, "done");
    return;
}`
	res := parseSource(t, src, Options{})
	expectNoSyntaxErrors(t, res)

	m := res.Root.(*ast.MethodDeclaration)
	stmts := m.Body.Statements
	if len(stmts) != 4 {
		t.Fatalf("statements = %d, want 4", len(stmts))
	}

	local, ok := stmts[0].(*ast.LocalDeclarationStatement)
	if !ok || local.Declaration.Var == nil {
		t.Fatalf("first statement = %#v", stmts[0])
	}
	if init := local.Declaration.Declarators[0].Initializer; init == nil || init.Assign != ast.AssignGeneral {
		t.Errorf("local initializer = %#v", init)
	}

	loop, ok := stmts[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("second statement is %T", stmts[1])
	}
	body := loop.Body.(*ast.Block)
	ifStmt, ok := body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("while body statement is %T", body.Statements[0])
	}
	if _, ok := ifStmt.Then.(*ast.BreakStatement); !ok {
		t.Errorf("then branch is %T", ifStmt.Then)
	}
	elseStmt, ok := ifStmt.Else.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("else branch is %T", ifStmt.Else)
	}
	assign, ok := elseStmt.Expression.(*ast.AssignmentExpression)
	if !ok || assign.Operator.Text != "+=" || assign.Assign != ast.AssignGeneral {
		t.Fatalf("else expression = %#v", elseStmt.Expression)
	}
	if target, ok := assign.Target.(*ast.AccessorExpression); !ok || target.Name.Text != "i" {
		t.Errorf("assignment target = %#v", assign.Target)
	}

	call, ok := stmts[2].(*ast.ExpressionStatement).Expression.(*ast.InvocationExpression)
	if !ok {
		t.Fatalf("third statement expression is %T", stmts[2].(*ast.ExpressionStatement).Expression)
	}
	if call.Name.Text != "print" || len(call.Arguments.Arguments) != 2 {
		t.Errorf("call = %s with %d args", call.Name.Text, len(call.Arguments.Arguments))
	}
	if ret := stmts[3].(*ast.ReturnStatement); ret.Value != nil {
		t.Errorf("bare return has value %#v", ret.Value)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

// exprOf разбирает выражение через оператор присваивания в теле метода.
func exprOf(t *testing.T, expr string) ast.Expression {
	t.Helper()
	res := parseSource(t, "public void f() { r = "+expr+"; }", Options{})
	expectNoSyntaxErrors(t, res)
	m := res.Root.(*ast.MethodDeclaration)
	stmt := m.Body.Statements[0].(*ast.ExpressionStatement)
	return stmt.Expression.(*ast.AssignmentExpression).Value
}

// shape печатает выражение со всеми скобками: (a+b)+c.
func shape(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.BinaryExpression:
		return "(" + shape(x.Left) + x.Operator.Text + shape(x.Right) + ")"
	case *ast.UnaryExpression:
		return x.Operator.Text + shape(x.Operand)
	case *ast.ParenthesedExpression:
		return shape(x.Inner)
	case *ast.AccessorExpression:
		return x.Name.Text
	case *ast.LiteralExpression:
		return x.Token.Text
	case *ast.InvocationExpression:
		return x.Name.Text + "()"
	default:
		return "?"
	}
}

func TestBinaryPrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"a + b + c", "((a+b)+c)"},
		{"a - b - c - d", "(((a-b)-c)-d)"},
		{"a + b * c", "(a+(b*c))"},
		{"a * b + c", "((a*b)+c)"},
		{`a \ b % c`, `(a\(b%c))`},
		{"a < b == c < d", "((a<b)==(c<d))"},
		{"a | b & c", "(a|(b&c))"},
		{"a & b | c & d", "((a&b)|(c&d))"},
		{"(a + b) * c", "((a+b)*c)"},
		{"-a + +b", "(-a++b)"},
		{"- - a", "--a"},
		{"f() + 1", "(f()+1)"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := shape(exprOf(t, tt.expr)); got != tt.want {
				t.Errorf("shape(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestLeadingTrivia(t *testing.T) {
	src := "  // header\npublic int x;\n"
	res := parseSource(t, src, Options{})
	expectNoSyntaxErrors(t, res)

	var texts []string
	for _, tok := range ast.LeadingTrivia(res.Root) {
		texts = append(texts, tok.Text)
	}
	want := []string{"  ", "// header", "\n"}
	if !slices.Equal(texts, want) {
		t.Errorf("leading trivia = %q, want %q", texts, want)
	}
	if len(res.Trailing) != 1 || res.Trailing[0].Token == nil || res.Trailing[0].Token.Text != "\n" {
		t.Errorf("trailing = %#v", res.Trailing)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestRecoveryMissingSemicolon(t *testing.T) {
	src := "module M {\npublic int x\npublic int y;\n}"
	res := parseSource(t, src, Options{})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectSemicolon}) {
		t.Fatalf("codes = %v", got)
	}
	d := res.Syntax[0]
	if !slices.Contains(d.Expected, ";") {
		t.Errorf("expected set %v lacks ';'", d.Expected)
	}
	cu := res.Root.(*ast.CompilationUnit)
	if len(cu.Module.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(cu.Module.Members))
	}
	second := cu.Module.Members[1].(*ast.FieldDeclaration)
	if second.Declaration.Declarators[0].Name.Text != "y" {
		t.Errorf("second member = %q", ast.SignificantText(second))
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestRecoverySkipsToSemicolon(t *testing.T) {
	src := "module M {\npublic int x = ) junk;\npublic int y;\n}"
	res := parseSource(t, src, Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectExpression}) {
		t.Fatalf("codes = %v", got)
	}
	cu := res.Root.(*ast.CompilationUnit)
	members := cu.Module.Members
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
	bad, ok := members[1].(*ast.BadNode)
	if !ok {
		t.Fatalf("second member is %T, want *ast.BadNode", members[1])
	}
	if got := ast.SignificantText(bad); got != ") junk ;" {
		t.Errorf("skipped = %q", got)
	}
	if _, ok := members[2].(*ast.FieldDeclaration); !ok {
		t.Errorf("third member is %T", members[2])
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	src := "public void f() {\n  x = ;\n  y = 1;\n}"
	res := parseSource(t, src, Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectExpression}) {
		t.Fatalf("codes = %v", got)
	}
	m := res.Root.(*ast.MethodDeclaration)
	if m.Body == nil || m.Body.CloseBrace == nil {
		t.Fatal("method body not closed")
	}
	var kinds []ast.NodeKind
	for _, s := range m.Body.Statements {
		kinds = append(kinds, s.Kind())
	}
	want := []ast.NodeKind{ast.KindExpressionStatement, ast.KindBad, ast.KindExpressionStatement}
	if !slices.Equal(kinds, want) {
		t.Errorf("statement kinds = %v, want %v", kinds, want)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestUnexpectedMember(t *testing.T) {
	src := "module M {\nint x;\npublic int y;\n}"
	res := parseSource(t, src, Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectMember}) {
		t.Fatalf("codes = %v", got)
	}
	if exp := res.Syntax[0].Expected; !slices.Equal(exp, []string{"my", "everybody", "public", "private"}) {
		t.Errorf("expected = %v", exp)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestUnclosedModule(t *testing.T) {
	src := "module M {\npublic int x;\n"
	res := parseSource(t, src, Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynUnclosedBrace}) {
		t.Fatalf("codes = %v", got)
	}
	d := res.Syntax[0]
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 9 {
		t.Errorf("notes = %+v", d.Notes)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestMissingModule(t *testing.T) {
	res := parseSource(t, "implements A;\n", Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectModule}) {
		t.Fatalf("codes = %v", got)
	}
	if exp := res.Syntax[0].Expected; !slices.Equal(exp, []string{"implements", "module"}) {
		t.Errorf("expected = %v", exp)
	}
	cu := res.Root.(*ast.CompilationUnit)
	if cu.Module != nil || len(cu.Implements) != 1 {
		t.Errorf("unexpected compilation unit %#v", cu)
	}
}

func TestEmptyInput(t *testing.T) {
	res := parseSource(t, "", Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectModule}) {
		t.Fatalf("codes = %v", got)
	}
	if _, ok := res.Root.(*ast.CompilationUnit); !ok {
		t.Fatalf("root is %T", res.Root)
	}
}

func TestTrailingInput(t *testing.T) {
	src := "public int x; }"
	res := parseSource(t, src, Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynTrailingInput}) {
		t.Fatalf("codes = %v", got)
	}
	if len(res.Trailing) == 0 {
		t.Fatal("expected trailing elements")
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestNonConstantFieldInitializer(t *testing.T) {
	res := parseSource(t, "public int x = y + 1;", Options{})
	if got := syntaxCodes(res); !slices.Equal(got, []diag.Code{diag.SynExpectConstant}) {
		t.Fatalf("codes = %v", got)
	}
	field, ok := res.Root.(*ast.FieldDeclaration)
	if !ok || field.Semicolon == nil {
		t.Fatalf("tree not kept: %#v", res.Root)
	}
	if _, ok := field.Declaration.Declarators[0].Initializer.Value.(*ast.BinaryExpression); !ok {
		t.Error("initializer value lost")
	}
}

func TestStrictModeStopsOnFirstError(t *testing.T) {
	src := "module M {\npublic int x\npublic int y\n}"
	res := parseSource(t, src, Options{Strict: true})
	if res.Root != nil {
		t.Errorf("root = %T, want nil", res.Root)
	}
	if len(res.Syntax) != 1 {
		t.Fatalf("syntax diagnostics = %d, want 1", len(res.Syntax))
	}
	var se *SyntaxError
	if !errors.As(res.Err, &se) {
		t.Fatalf("err = %v, want *SyntaxError", res.Err)
	}
	if se.Code != diag.SynExpectSemicolon || se.Found.Text != "public" {
		t.Errorf("syntax error = %+v", se)
	}
	if se.Pos.Line != 2 || se.Pos.Col != 13 {
		t.Errorf("position = %d:%d, want 2:13", se.Pos.Line, se.Pos.Col)
	}
	if !slices.Contains(se.Expected, ";") {
		t.Errorf("expected = %v", se.Expected)
	}
	if !strings.HasPrefix(se.Error(), "test.bs:2:13: SYN") {
		t.Errorf("Error() = %q", se.Error())
	}
	if got := se.ExpectedList(); !strings.HasPrefix(got, "';'") || strings.Count(got, "'") != 2*len(se.Expected) {
		t.Errorf("ExpectedList() = %q", got)
	}
}

func TestStrictModeValidInput(t *testing.T) {
	res := parseSource(t, "implements A.B;\nmodule M { public int f() { return 1; } }", Options{Strict: true})
	expectNoSyntaxErrors(t, res)
	if res.Root == nil {
		t.Fatal("root is nil")
	}
}

func TestMaxErrors(t *testing.T) {
	src := "module M {\npublic int a\npublic int b\npublic int c\n}"
	res := parseSource(t, src, Options{MaxErrors: 1})
	want := []diag.Code{diag.SynExpectSemicolon, diag.SynTooManyErrors}
	if got := syntaxCodes(res); !slices.Equal(got, want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	if res.Root == nil || res.Err != nil {
		t.Fatalf("root=%v err=%v", res.Root, res.Err)
	}
	if got := treeText(res); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := parseSourceCtx(t, ctx, "module M { public int x; }", Options{})
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", res.Err)
	}
	if res.Root != nil {
		t.Errorf("root = %T, want nil", res.Root)
	}
}

func TestReporterReceivesSyntaxDiagnostics(t *testing.T) {
	rep := &diag.SliceReporter{}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.bs", []byte("public int x")))
	res := ParseFile(context.Background(), file, lexer.New(file, lexer.Options{}), Options{Reporter: rep})
	if len(rep.Items) != 1 || rep.Items[0].Code != diag.SynExpectSemicolon {
		t.Fatalf("reporter items = %+v", rep.Items)
	}
	if len(rep.Items[0].Expected) == 0 {
		t.Error("reporter lost the expected set")
	}
	if !res.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestRoundTripMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"@",
		"public int x = 12.;",
		"module M { public int x = 0b102; }",
		"module { public int x; }",
		"implements ;\nmodule M { }",
		"module M {\r\n  public string s = \"unterminated\r\n}",
		"module M { public void f( { } }",
		"public void f() { if (a { } }",
		"module M { public int x; } trailing stuff",
		"module M { public void f() { for (;;) { } } }",
		"\t// only comment",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			res := parseSource(t, src, Options{})
			if res.Root == nil {
				t.Fatalf("root is nil (err=%v)", res.Err)
			}
			if got := treeText(res); got != src {
				t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
			}
		})
	}
}
