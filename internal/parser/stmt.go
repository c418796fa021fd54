package parser

import (
	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/token"
)

// statementStarts: что может начинать оператор, для списка expected.
var statementStarts = []string{
	"{", "return", "break", "if", "while", "var", "type", "expression",
}

// parseBlock: '{' Statement* '}'
func (p *Parser) parseBlock() (*ast.Block, outcome) {
	if !p.at(token.OpenBrace) {
		return nil, noMatch
	}
	p.b.Start()
	block := &ast.Block{OpenBrace: p.bump()}
	finish := func(res outcome) (*ast.Block, outcome) {
		p.b.Finish(block)
		return block, res
	}

	// модификатор внутри блока: почти наверняка потерянная '}' перед
	// следующим членом модуля: не съедаем его
	for !p.at(token.CloseBrace) && !p.at(token.EOF) && !p.look.Kind.IsModifier() {
		if !p.checkpoint() {
			return finish(failed)
		}
		stmt, res := p.parseStatement()
		switch res {
		case matched:
			block.Statements = append(block.Statements, stmt)
		case failed:
			block.Statements = append(block.Statements, stmt)
			if bad := p.resync(atMember); bad != nil {
				block.Statements = append(block.Statements, bad)
			}
		case noMatch:
			p.errorExpected(diag.SynExpectStatement, append(statementStarts, token.CloseBrace.Spelling())...)
			if bad := p.resync(atMember); bad != nil {
				block.Statements = append(block.Statements, bad)
			}
		}
		if p.halted() {
			return finish(failed)
		}
	}

	closing, ok := p.expectClose(block.OpenBrace, token.CloseBrace, diag.SynUnclosedBrace)
	block.CloseBrace = closing
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseStatement выбирает оператор по первому токену.
func (p *Parser) parseStatement() (ast.Statement, outcome) {
	switch {
	case p.at(token.OpenBrace):
		return p.parseBlock()
	case p.look.Kind.IsTypeKeyword(), p.at(token.KwVar):
		return p.parseLocalDeclaration()
	case p.at(token.KwReturn):
		return p.parseReturn()
	case p.at(token.KwBreak):
		return p.parseBreak()
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.KwWhile):
		return p.parseWhile()
	case p.canStartExpression():
		return p.parseExpressionStatement()
	default:
		return nil, noMatch
	}
}

// parseLocalDeclaration: VariableDeclaration ';'
func (p *Parser) parseLocalDeclaration() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.LocalDeclarationStatement{}
	decl, res := p.parseVariableDeclaration(ast.AssignGeneral)
	stmt.Declaration = decl
	if res == matched {
		var ok bool
		stmt.Semicolon, ok = p.expectSemicolon(declaratorFollow(decl)...)
		if !ok {
			res = failed
		}
	}
	p.b.Finish(stmt)
	return stmt, res
}

// parseReturn: 'return' Expression? ';'
func (p *Parser) parseReturn() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.ReturnStatement{Keyword: p.bump()}
	finish := func(res outcome) (ast.Statement, outcome) {
		p.b.Finish(stmt)
		return stmt, res
	}
	if !p.at(token.Semicolon) {
		value, res := p.parseExpression()
		stmt.Value = value
		switch res {
		case noMatch:
			p.errorExpected(diag.SynExpectExpression, token.Semicolon.Spelling(), "expression")
			return finish(failed)
		case failed:
			return finish(failed)
		}
	}
	semi, ok := p.expectSemicolon()
	stmt.Semicolon = semi
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseBreak: 'break' ';'
func (p *Parser) parseBreak() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.BreakStatement{Keyword: p.bump()}
	semi, ok := p.expectSemicolon()
	stmt.Semicolon = semi
	p.b.Finish(stmt)
	if !ok {
		return stmt, failed
	}
	return stmt, matched
}

// parseCondition: '(' Expression ')'
func (p *Parser) parseCondition() (open *token.Token, cond ast.Expression, closing *token.Token, res outcome) {
	open, ok := p.expect(token.OpenParen, diag.SynUnexpectedToken)
	if !ok {
		return nil, nil, nil, failed
	}
	cond, res = p.parseExpression()
	switch res {
	case noMatch:
		p.errorExpected(diag.SynExpectExpression, "expression")
		return open, nil, nil, failed
	case failed:
		return open, cond, nil, failed
	}
	closing, ok = p.expectClose(open, token.CloseParen, diag.SynUnclosedParen)
	if !ok {
		return open, cond, nil, failed
	}
	return open, cond, closing, matched
}

// parseBody: вложенный оператор if/while/else.
func (p *Parser) parseBody() (ast.Statement, outcome) {
	body, res := p.parseStatement()
	if res == noMatch {
		p.errorExpected(diag.SynExpectStatement, statementStarts...)
		return nil, failed
	}
	return body, res
}

// parseIf: 'if' '(' Expression ')' Statement ('else' Statement)?
func (p *Parser) parseIf() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.IfStatement{Keyword: p.bump()}
	finish := func(res outcome) (ast.Statement, outcome) {
		p.b.Finish(stmt)
		return stmt, res
	}

	var res outcome
	stmt.OpenParen, stmt.Condition, stmt.CloseParen, res = p.parseCondition()
	if res != matched {
		return finish(failed)
	}
	stmt.Then, res = p.parseBody()
	if res != matched {
		return finish(failed)
	}
	if p.at(token.KwElse) {
		stmt.ElseKeyword = p.bump()
		stmt.Else, res = p.parseBody()
		if res != matched {
			return finish(failed)
		}
	}
	return finish(matched)
}

// parseWhile: 'while' '(' Expression ')' Statement
func (p *Parser) parseWhile() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.WhileStatement{Keyword: p.bump()}
	finish := func(res outcome) (ast.Statement, outcome) {
		p.b.Finish(stmt)
		return stmt, res
	}

	var res outcome
	stmt.OpenParen, stmt.Condition, stmt.CloseParen, res = p.parseCondition()
	if res != matched {
		return finish(failed)
	}
	stmt.Body, res = p.parseBody()
	if res != matched {
		return finish(failed)
	}
	return finish(matched)
}

// parseExpressionStatement: Expression (AssignOp Expression)? ';'
// Присваивание оборачивает уже разобранную левую часть через StartAt.
func (p *Parser) parseExpressionStatement() (ast.Statement, outcome) {
	p.b.Start()
	stmt := &ast.ExpressionStatement{}
	finish := func(res outcome) (ast.Statement, outcome) {
		p.b.Finish(stmt)
		return stmt, res
	}

	m := p.b.Mark()
	expr, res := p.parseExpression()
	stmt.Expression = expr
	if res != matched {
		return finish(failed)
	}

	if p.look.Kind.IsAssignment() {
		p.b.StartAt(m)
		assign := &ast.AssignmentExpression{Assign: ast.AssignGeneral, Target: expr, Operator: p.bump()}
		value, res := p.parseExpression()
		assign.Value = value
		if res == noMatch {
			p.errorExpected(diag.SynExpectExpression, "expression")
		}
		p.b.Finish(assign)
		stmt.Expression = assign
		if res != matched {
			return finish(failed)
		}
	}

	semi, ok := p.expectSemicolon()
	stmt.Semicolon = semi
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}
