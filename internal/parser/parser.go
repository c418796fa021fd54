package parser

import (
	"context"
	"fmt"
	"strconv"

	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/lexer"
	"bsharp/internal/source"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

type Options struct {
	// Strict останавливает разбор на первой синтаксической ошибке:
	// Root == nil, ровно одна диагностика, Err: *SyntaxError.
	Strict bool
	// MaxErrors ограничивает число синтаксических ошибок (0: без лимита).
	MaxErrors int
	Reporter  diag.Reporter
}

type Result struct {
	// Root: CompilationUnit или одиночный Member; nil при strict-ошибке и отмене.
	Root ast.Node
	// Trailing holds trivia and skipped tokens after the root node, so that
	// Text(Root) + Text(Trailing) reproduces the whole file.
	Trailing []ast.Element
	Lexical  []diag.Diagnostic
	Syntax   []diag.Diagnostic
	Err      error
}

// HasErrors reports whether any lexical or syntax error was found.
func (r *Result) HasErrors() bool {
	for _, ds := range [][]diag.Diagnostic{r.Lexical, r.Syntax} {
		for _, d := range ds {
			if d.Severity.IsError() {
				return true
			}
		}
	}
	return r.Err != nil
}

// Diagnostics returns lexical then syntax diagnostics.
func (r *Result) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Lexical)+len(r.Syntax))
	out = append(out, r.Lexical...)
	return append(out, r.Syntax...)
}

// outcome: результат продукции: не подошла, разобрана, сломалась посередине.
type outcome uint8

const (
	noMatch outcome = iota
	matched
	failed
)

// Parser: состояние парсера на один файл
type Parser struct {
	ctx  context.Context
	lx   *lexer.Lexer
	file *source.File
	b    *ast.Builder
	opts Options

	look     *token.Token   // текущий значимый токен
	trivia   []*token.Token // trivia и None перед look, FIFO
	lastSpan source.Span    // span последнего съеденного токена

	syntax    []diag.Diagnostic
	errors    int
	fatal     *SyntaxError
	stopped   bool // лимит ошибок или отмена контекста
	cancelErr error

	tracer trace.Tracer
	span   *trace.Span
}

// ParseFile: входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(ctx context.Context, file *source.File, lx *lexer.Lexer, opts Options) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &Parser{
		ctx:      ctx,
		lx:       lx,
		file:     file,
		b:        ast.NewBuilder(),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
		tracer:   trace.FromContext(ctx),
	}
	p.span = trace.BeginFile(p.tracer, trace.OpParse, file.Path, trace.CurrentSpan(ctx).SpanID)
	p.fill()

	root, res := p.parseRoot()
	if p.stopped && p.cancelErr == nil {
		p.drain()
	} else if !p.halted() && !p.at(token.EOF) {
		if res == matched {
			p.report(diag.NewError(diag.SynTrailingInput, p.look.Span,
				fmt.Sprintf("unexpected %s after the end of the %s", describe(p.look), rootTitle(root))).
				WithExpected(token.EOF.Spelling()))
		}
		if p.fatal == nil {
			p.drain()
		}
	}
	p.flushTrivia()

	out := Result{
		Lexical: lx.Diagnostics(),
		Syntax:  p.syntax,
	}
	switch {
	case p.fatal != nil:
		out.Err = p.fatal
		p.b.Unwind()
	case p.cancelErr != nil:
		out.Err = p.cancelErr
		p.b.Unwind()
	default:
		out.Root = root
		elems := p.b.TakeRoot()
		// первый элемент корневого фрейма: сам root
		if len(elems) > 0 && elems[0].Node == root {
			elems = elems[1:]
		}
		out.Trailing = elems
	}
	p.span.WithExtra("errors", strconv.Itoa(p.errors)).End(root.Kind().String())
	return out
}

// parseRoot выбирает корень: модификатор в начале: одиночный член модуля,
// иначе CompilationUnit.
func (p *Parser) parseRoot() (ast.Node, outcome) {
	if p.look.Kind.IsModifier() {
		m, res := p.parseMember()
		return m, res
	}
	cu, res := p.parseCompilationUnit()
	return cu, res
}

// halted: разбор прекращён: strict-ошибка, лимит ошибок или отмена.
func (p *Parser) halted() bool {
	return p.fatal != nil || p.stopped
}

// checkpoint проверяет отмену контекста между членами и операторами.
func (p *Parser) checkpoint() bool {
	if p.halted() {
		return false
	}
	if err := p.ctx.Err(); err != nil {
		p.cancelErr = err
		p.stopped = true
		return false
	}
	return true
}

// drain складывает все оставшиеся токены в BadNode корневого фрейма.
func (p *Parser) drain() {
	if p.at(token.EOF) {
		return
	}
	p.b.Start()
	for !p.at(token.EOF) {
		p.bump()
	}
	p.b.Finish(&ast.BadNode{})
}
