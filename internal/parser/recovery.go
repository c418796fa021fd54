package parser

import (
	"bsharp/internal/ast"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

// stopFunc: дополнительные точки синхронизации для resync.
type stopFunc func(token.Kind) bool

func atMember(k token.Kind) bool { return k.IsModifier() }

func atTopLevel(k token.Kind) bool {
	return k == token.KwImplements || k == token.KwModule || k.IsModifier()
}

// resync пропускает токены до точки синхронизации и складывает их в BadNode:
//   - ';' на нулевой глубине съедается и завершает пропуск;
//   - '}' на нулевой глубине не съедается (закрывает внешний блок);
//   - '{' ... '}' пропускаются целиком, парная '}' завершает пропуск;
//   - stop(kind) на нулевой глубине и EOF останавливают пропуск.
//
// Возвращает nil, если пропускать было нечего.
func (p *Parser) resync(stop stopFunc) *ast.BadNode {
	if p.halted() {
		return nil
	}
	depth := 0
	skipped := 0
	open := func() {
		if skipped == 0 {
			p.b.Start()
		}
		skipped++
	}
loop:
	for !p.at(token.EOF) {
		k := p.look.Kind
		if depth == 0 {
			switch {
			case k == token.CloseBrace, stop != nil && stop(k):
				break loop
			case k == token.Semicolon:
				open()
				p.bump()
				break loop
			}
		}
		open()
		p.bump()
		switch k {
		case token.OpenBrace:
			depth++
		case token.CloseBrace:
			depth--
			if depth == 0 {
				break loop
			}
		}
	}
	if skipped == 0 {
		return nil
	}
	bad := &ast.BadNode{}
	p.b.Finish(bad)
	p.span.Point(trace.OpRecover, ast.SignificantText(bad))
	return bad
}

// skipTo пропускает всё до токена kind (не съедая его) или EOF.
func (p *Parser) skipTo(kind token.Kind) *ast.BadNode {
	if p.at(kind) || p.at(token.EOF) {
		return nil
	}
	p.b.Start()
	for !p.at(kind) && !p.at(token.EOF) {
		p.bump()
	}
	bad := &ast.BadNode{}
	p.b.Finish(bad)
	return bad
}
