package parser

import (
	"fmt"
	"strings"

	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/source"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

// fill тянет токены из лексера до следующего значимого.
// Trivia и None-токены уходят в FIFO и будут прикреплены к узлу,
// который съест этот значимый токен.
func (p *Parser) fill() {
	for {
		tok := p.lx.Next()
		if tok.Kind.IsTrivia() || tok.Kind == token.None {
			p.trivia = append(p.trivia, &tok)
			continue
		}
		p.look = &tok
		return
	}
}

// flushTrivia выгружает накопленные trivia во внутренний фрейм билдера.
func (p *Parser) flushTrivia() {
	for _, t := range p.trivia {
		p.b.Token(t)
	}
	p.trivia = p.trivia[:0]
}

// bump: съедает текущий значимый токен вместе с trivia перед ним.
// EOF не съедается.
func (p *Parser) bump() *token.Token {
	tok := p.look
	if tok.Kind == token.EOF {
		return tok
	}
	p.flushTrivia()
	p.b.Token(tok)
	p.lastSpan = tok.Span
	p.fill()
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.look.Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return p.look.Kind.IsIn(kinds...)
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (nil,false).
func (p *Parser) expect(k token.Kind, code diag.Code, more ...string) (*token.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	p.errorExpected(code, append([]string{k.Spelling()}, more...)...)
	return nil, false
}

// expectSemicolon ставит диагностику сразу после предыдущего токена:
// там, куда ';' нужно вставить.
func (p *Parser) expectSemicolon(more ...string) (*token.Token, bool) {
	if p.at(token.Semicolon) {
		return p.bump(), true
	}
	expected := append([]string{token.Semicolon.Spelling()}, more...)
	d := diag.NewError(diag.SynExpectSemicolon, p.insertSpan(),
		fmt.Sprintf("expected %s, found %s", expectedPhrase(expected), describe(p.look))).
		WithExpected(expected...).
		WithFix("insert ';'", diag.FixEdit{Span: p.insertSpan(), NewText: ";"})
	p.report(d)
	return nil, false
}

// expectClose закрывает скобку, открытую токеном open.
func (p *Parser) expectClose(open *token.Token, k token.Kind, code diag.Code, more ...string) (*token.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	expected := append([]string{k.Spelling()}, more...)
	d := diag.NewError(code, p.diagSpan(),
		fmt.Sprintf("expected %s, found %s", expectedPhrase(expected), describe(p.look))).
		WithExpected(expected...)
	if open != nil {
		d = d.WithNote(open.Span, fmt.Sprintf("%s opened here", quoteSpelling(open.Text)))
	}
	p.report(d)
	return nil, false
}

// errorExpected репортит "expected X, found Y" на текущем токене.
func (p *Parser) errorExpected(code diag.Code, expected ...string) {
	msg := fmt.Sprintf("expected %s, found %s", expectedPhrase(expected), describe(p.look))
	p.report(diag.NewError(code, p.diagSpan(), msg).WithExpected(expected...))
}

// report: единая точка для синтаксических диагностик: лимит ошибок,
// strict-режим, трассировка.
func (p *Parser) report(d diag.Diagnostic) {
	if p.halted() {
		return
	}
	if d.Severity.IsError() {
		if p.opts.MaxErrors > 0 && p.errors >= p.opts.MaxErrors {
			p.stopped = true
			limit := diag.NewError(diag.SynTooManyErrors, d.Primary,
				fmt.Sprintf("too many syntax errors (limit %d), parsing stopped", p.opts.MaxErrors))
			p.syntax = append(p.syntax, limit)
			diag.Emit(p.opts.Reporter, limit)
			return
		}
		p.errors++
	}
	p.syntax = append(p.syntax, d)
	diag.Emit(p.opts.Reporter, d)
	p.span.Point(trace.OpSyntaxError, d.Code.ID()+" "+d.Message)

	if p.opts.Strict && d.Severity.IsError() {
		pos := p.file.Position(d.Primary.Start)
		p.fatal = &SyntaxError{
			Code:     d.Code,
			Path:     p.file.Path,
			Pos:      pos,
			Found:    *p.look,
			Message:  d.Message,
			Expected: d.Expected,
		}
	}
}

// diagSpan: span для диагностики на текущем токене.
// На EOF указываем сразу за последним съеденным токеном.
func (p *Parser) diagSpan() source.Span {
	if p.at(token.EOF) && p.lastSpan.End > 0 {
		return p.insertSpan()
	}
	return p.look.Span
}

func (p *Parser) insertSpan() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// describe описывает найденный токен для сообщения.
func describe(tok *token.Token) string {
	switch {
	case tok.Kind == token.EOF:
		return token.EOF.Spelling()
	case tok.Kind == token.Identifier:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	case tok.Kind.IsLiteral() && !tok.Kind.IsKeyword():
		return fmt.Sprintf("%s %s", tok.Kind.Spelling(), tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}

// descriptive: ожидаемые элементы, которые пишутся словами, без кавычек.
var descriptive = map[string]bool{
	"identifier":   true,
	"type":         true,
	"expression":   true,
	"statement":    true,
	"member":       true,
	"end of input": true,
}

func quoteSpelling(s string) string {
	if descriptive[s] {
		return s
	}
	return "'" + s + "'"
}

func expectedPhrase(expected []string) string {
	switch len(expected) {
	case 0:
		return "something else"
	case 1:
		return quoteSpelling(expected[0])
	case 2:
		return quoteSpelling(expected[0]) + " or " + quoteSpelling(expected[1])
	}
	quoted := make([]string, len(expected))
	for i, s := range expected {
		quoted[i] = quoteSpelling(s)
	}
	return "one of " + strings.Join(quoted, ", ")
}

func spellings(kinds ...token.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.Spelling()
	}
	return out
}

var (
	modifierKinds = []token.Kind{token.KwMy, token.KwEverybody, token.KwPublic, token.KwPrivate}
	typeKinds     = []token.Kind{
		token.KwVoid, token.KwBool, token.KwInt, token.KwDouble,
		token.KwString, token.KwChar, token.KwByte,
	}
)

func rootTitle(n ast.Node) string {
	if _, ok := n.(*ast.CompilationUnit); ok {
		return "module"
	}
	return "member declaration"
}
