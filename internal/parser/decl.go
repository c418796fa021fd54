package parser

import (
	"fmt"

	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/token"
	"bsharp/internal/trace"
)

// parseCompilationUnit: ImplementsDirective* ModuleDeclaration
func (p *Parser) parseCompilationUnit() (*ast.CompilationUnit, outcome) {
	p.b.Start()
	cu := &ast.CompilationUnit{}
	finish := func(res outcome) (*ast.CompilationUnit, outcome) {
		p.b.Finish(cu)
		return cu, res
	}

	for p.at(token.KwImplements) && !p.halted() {
		d, res := p.parseImplements()
		cu.Implements = append(cu.Implements, d)
		if res == failed {
			p.resync(atTopLevel)
		}
	}
	if p.halted() {
		return finish(failed)
	}

	if !p.at(token.KwModule) {
		p.errorExpected(diag.SynExpectModule, spellings(token.KwImplements, token.KwModule)...)
		p.skipTo(token.KwModule)
		if p.halted() || !p.at(token.KwModule) {
			return finish(failed)
		}
	}

	m, res := p.parseModule()
	cu.Module = m
	return finish(res)
}

// parseImplements: 'implements' (Identifier | '.')+ ';'
func (p *Parser) parseImplements() (*ast.ImplementsDirective, outcome) {
	p.b.Start()
	d := &ast.ImplementsDirective{Keyword: p.bump()}
	for p.atAny(token.Identifier, token.Dot) {
		d.Name = append(d.Name, p.bump())
	}
	if len(d.Name) == 0 {
		p.errorExpected(diag.SynExpectIdentifier, token.Identifier.Spelling())
		p.b.Finish(d)
		return d, failed
	}
	semi, ok := p.expectSemicolon(token.Identifier.Spelling(), token.Dot.Spelling())
	d.Semicolon = semi
	p.b.Finish(d)
	if !ok {
		return d, failed
	}
	return d, matched
}

// parseModule: 'module' Identifier '{' Member* '}'
func (p *Parser) parseModule() (*ast.ModuleDeclaration, outcome) {
	p.b.Start()
	m := &ast.ModuleDeclaration{Keyword: p.bump()}
	finish := func(res outcome) (*ast.ModuleDeclaration, outcome) {
		p.b.Finish(m)
		return m, res
	}

	name, ok := p.expect(token.Identifier, diag.SynExpectIdentifier)
	m.Name = name
	// безымянный модуль с телом разбираем дальше, ошибка уже есть
	if !ok && (p.halted() || !p.at(token.OpenBrace)) {
		return finish(failed)
	}
	open, ok := p.expect(token.OpenBrace, diag.SynUnexpectedToken)
	if !ok {
		return finish(failed)
	}
	m.OpenBrace = open

	m.Members = p.parseMembers()
	if p.halted() {
		return finish(failed)
	}
	closing, ok := p.expectClose(open, token.CloseBrace, diag.SynUnclosedBrace, spellings(modifierKinds...)...)
	m.CloseBrace = closing
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseMembers разбирает члены модуля до '}' или EOF.
// Сломанный член не прерывает разбор остальных.
func (p *Parser) parseMembers() []ast.Member {
	var members []ast.Member
	for !p.at(token.CloseBrace) && !p.at(token.EOF) {
		if !p.checkpoint() {
			break
		}
		member, res := p.parseMember()
		switch res {
		case matched:
			members = append(members, member)
		case failed:
			members = append(members, member)
			if bad := p.resync(atMember); bad != nil {
				members = append(members, bad)
			}
		case noMatch:
			p.errorExpected(diag.SynExpectMember, spellings(modifierKinds...)...)
			if bad := p.resync(atMember); bad != nil {
				members = append(members, bad)
			}
		}
	}
	return members
}

// parseMember: Modifier PredefinedType Identifier (MethodTail | FieldTail)
// Метод или поле решается по '(' сразу после имени.
func (p *Parser) parseMember() (ast.Member, outcome) {
	if !p.look.Kind.IsModifier() {
		return nil, noMatch
	}
	span := trace.BeginFile(p.tracer, trace.OpMember, p.file.Path, p.span.ID())

	p.b.Start()
	mod := p.bump()
	declMark := p.b.Mark()

	typ, res := p.parsePredefinedType()
	if res != matched {
		if res == noMatch {
			p.errorExpected(diag.SynExpectType, spellings(typeKinds...)...)
		}
		field := &ast.FieldDeclaration{Modifier: mod}
		p.b.Finish(field)
		span.End("bad type")
		return field, failed
	}

	nameMark := p.b.Mark()
	if !p.at(token.Identifier) {
		p.errorExpected(diag.SynExpectIdentifier, token.Identifier.Spelling())
		p.b.StartAt(declMark)
		decl := &ast.VariableDeclaration{Type: typ}
		p.b.Finish(decl)
		field := &ast.FieldDeclaration{Modifier: mod, Declaration: decl}
		p.b.Finish(field)
		span.End("bad name")
		return field, failed
	}
	name := p.bump()

	if p.at(token.OpenParen) {
		method, res := p.parseMethodTail(mod, typ, name)
		span.WithExtra("name", name.Text).End("method")
		return method, res
	}
	field, res := p.parseFieldTail(mod, typ, name, declMark, nameMark)
	span.WithExtra("name", name.Text).End("field")
	return field, res
}

// parseMethodTail: ParameterList Block. Фрейм члена уже открыт.
func (p *Parser) parseMethodTail(mod *token.Token, typ *ast.PredefinedType, name *token.Token) (*ast.MethodDeclaration, outcome) {
	m := &ast.MethodDeclaration{Modifier: mod, ReturnType: typ, Name: name}
	finish := func(res outcome) (*ast.MethodDeclaration, outcome) {
		p.b.Finish(m)
		return m, res
	}

	params, res := p.parseParameterList()
	m.Parameters = params
	if res != matched {
		return finish(failed)
	}
	body, res := p.parseBlock()
	m.Body = body
	switch res {
	case noMatch:
		p.errorExpected(diag.SynUnexpectedToken, token.OpenBrace.Spelling())
		return finish(failed)
	case failed:
		return finish(failed)
	}
	return finish(matched)
}

// parseFieldTail: ('=' Constant)? (',' VariableDeclarator)* ';'
// В фрейме члена уже лежат модификатор, тип и имя; declMark и nameMark
// указывают на тип и имя, их забирают узлы объявления и декларатора.
func (p *Parser) parseFieldTail(mod *token.Token, typ *ast.PredefinedType, name *token.Token, declMark, nameMark ast.Mark) (*ast.FieldDeclaration, outcome) {
	p.b.StartAt(nameMark)
	first, res := p.finishDeclarator(name, ast.AssignConstant)

	p.b.StartAt(declMark)
	decl := &ast.VariableDeclaration{Type: typ, Declarators: []*ast.VariableDeclarator{first}}
	if res != failed {
		res = p.parseMoreDeclarators(decl, ast.AssignConstant)
	}
	p.b.Finish(decl)

	field := &ast.FieldDeclaration{Modifier: mod, Declaration: decl}
	if res != failed {
		semi, ok := p.expectSemicolon(declaratorFollow(decl)...)
		field.Semicolon = semi
		if !ok {
			res = failed
		}
	}
	p.b.Finish(field)
	if res == failed {
		return field, failed
	}
	return field, matched
}

// declaratorFollow: что ещё допустимо после последнего декларатора кроме ';'.
func declaratorFollow(decl *ast.VariableDeclaration) []string {
	last := decl.Declarators[len(decl.Declarators)-1]
	if last.Initializer == nil {
		return spellings(token.Comma, token.Equals)
	}
	return spellings(token.Comma)
}

// parseVariableDeclaration: (PredefinedType | 'var') VariableDeclarator (',' VariableDeclarator)*
func (p *Parser) parseVariableDeclaration(kind ast.AssignKind) (*ast.VariableDeclaration, outcome) {
	if !p.look.Kind.IsTypeKeyword() && !p.at(token.KwVar) {
		return nil, noMatch
	}
	p.b.Start()
	decl := &ast.VariableDeclaration{}
	finish := func(res outcome) (*ast.VariableDeclaration, outcome) {
		p.b.Finish(decl)
		return decl, res
	}

	if p.at(token.KwVar) {
		decl.Var = p.bump()
	} else {
		typ, res := p.parsePredefinedType()
		decl.Type = typ
		if res != matched {
			return finish(failed)
		}
	}

	first, res := p.parseDeclarator(kind)
	if first != nil {
		decl.Declarators = append(decl.Declarators, first)
	}
	if res == failed {
		return finish(failed)
	}
	return finish(p.parseMoreDeclarators(decl, kind))
}

func (p *Parser) parseMoreDeclarators(decl *ast.VariableDeclaration, kind ast.AssignKind) outcome {
	for p.at(token.Comma) && !p.halted() {
		p.bump()
		d, res := p.parseDeclarator(kind)
		if d != nil {
			decl.Declarators = append(decl.Declarators, d)
		}
		if res == failed {
			return failed
		}
	}
	return matched
}

// parseDeclarator: Identifier ('=' Expression)?
func (p *Parser) parseDeclarator(kind ast.AssignKind) (*ast.VariableDeclarator, outcome) {
	if !p.at(token.Identifier) {
		p.errorExpected(diag.SynExpectIdentifier, token.Identifier.Spelling())
		return nil, failed
	}
	p.b.Start()
	name := p.bump()
	return p.finishDeclarator(name, kind)
}

// finishDeclarator дочитывает инициализатор и закрывает открытый фрейм декларатора.
func (p *Parser) finishDeclarator(name *token.Token, kind ast.AssignKind) (*ast.VariableDeclarator, outcome) {
	init, res := p.parseInitializer(kind)
	d := &ast.VariableDeclarator{Name: name, Initializer: init}
	p.b.Finish(d)
	return d, res
}

// parseInitializer: '=' Expression. Отсутствие инициализатора: не ошибка.
func (p *Parser) parseInitializer(kind ast.AssignKind) (*ast.AssignmentExpression, outcome) {
	if !p.at(token.Equals) {
		return nil, matched
	}
	p.b.Start()
	assign := &ast.AssignmentExpression{Assign: kind, Operator: p.bump()}
	value, res := p.parseExpression()
	assign.Value = value
	switch res {
	case noMatch:
		p.errorExpected(diag.SynExpectExpression, "expression")
		res = failed
	case matched:
		if kind == ast.AssignConstant && !ast.IsConstant(value) {
			p.report(diag.NewError(diag.SynExpectConstant, ast.TrimmedSpan(value),
				fmt.Sprintf("field initializer must be a constant expression, found %q", ast.SignificantText(value))))
		}
	}
	p.b.Finish(assign)
	return assign, res
}

// parsePredefinedType: TypeKeyword ('[' Expression ']')?
func (p *Parser) parsePredefinedType() (*ast.PredefinedType, outcome) {
	if !p.look.Kind.IsTypeKeyword() {
		return nil, noMatch
	}
	p.b.Start()
	typ := &ast.PredefinedType{Keyword: p.bump()}
	res := matched
	if p.at(token.OpenBracket) {
		typ.Rank, res = p.parseArrayRank()
	}
	p.b.Finish(typ)
	return typ, res
}

// parseArrayRank: '[' Expression ']'
func (p *Parser) parseArrayRank() (*ast.ArrayRankSpecifier, outcome) {
	p.b.Start()
	rank := &ast.ArrayRankSpecifier{OpenBracket: p.bump()}
	finish := func(res outcome) (*ast.ArrayRankSpecifier, outcome) {
		p.b.Finish(rank)
		return rank, res
	}
	size, res := p.parseExpression()
	rank.Size = size
	switch res {
	case noMatch:
		p.errorExpected(diag.SynExpectExpression, "expression")
		return finish(failed)
	case failed:
		return finish(failed)
	}
	closing, ok := p.expectClose(rank.OpenBracket, token.CloseBracket, diag.SynUnclosedBracket)
	rank.CloseBracket = closing
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseParameterList: '(' (Parameter (',' Parameter)*)? ')'
func (p *Parser) parseParameterList() (*ast.ParameterList, outcome) {
	if !p.at(token.OpenParen) {
		return nil, noMatch
	}
	p.b.Start()
	list := &ast.ParameterList{OpenParen: p.bump()}
	finish := func(res outcome) (*ast.ParameterList, outcome) {
		p.b.Finish(list)
		return list, res
	}

	if !p.at(token.CloseParen) {
		for {
			param, res := p.parseParameter()
			if param != nil {
				list.Parameters = append(list.Parameters, param)
			}
			if res != matched {
				return finish(failed)
			}
			if !p.at(token.Comma) {
				break
			}
			p.bump()
		}
	}
	closing, ok := p.expectClose(list.OpenParen, token.CloseParen, diag.SynUnclosedParen, token.Comma.Spelling())
	list.CloseParen = closing
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseParameter: PredefinedType Identifier
func (p *Parser) parseParameter() (*ast.Parameter, outcome) {
	if !p.look.Kind.IsTypeKeyword() {
		p.errorExpected(diag.SynExpectType, spellings(typeKinds...)...)
		return nil, failed
	}
	p.b.Start()
	param := &ast.Parameter{}
	typ, res := p.parsePredefinedType()
	param.Type = typ
	if res == matched {
		param.Name, _ = p.expect(token.Identifier, diag.SynExpectIdentifier)
		if param.Name == nil {
			res = failed
		}
	}
	p.b.Finish(param)
	return param, res
}
