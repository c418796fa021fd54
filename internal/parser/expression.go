package parser

import (
	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/token"
)

// canStartExpression: может ли текущий токен начинать выражение.
func (p *Parser) canStartExpression() bool {
	k := p.look.Kind
	return k.IsLiteral() || k == token.Identifier || k == token.OpenParen ||
		k == token.Plus || k == token.Minus
}

func (p *Parser) parseExpression() (ast.Expression, outcome) {
	return p.parseBinaryExpr(precOr)
}

// parseBinaryExpr: precedence climbing. Левый операнд сворачивается в цикле,
// поэтому a+b+c даёт (a+b)+c.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expression, outcome) {
	m := p.b.Mark()
	left, res := p.parseUnary()
	if res != matched {
		return left, res
	}

	for !p.halted() {
		prec := binaryPrec(p.look.Kind)
		if prec == precNone || prec < minPrec {
			break
		}
		p.b.StartAt(m)
		bin := &ast.BinaryExpression{Left: left, Operator: p.bump()}
		right, res := p.parseBinaryExpr(prec + 1)
		bin.Right = right
		if res == noMatch {
			p.errorExpected(diag.SynExpectExpression, "expression")
		}
		p.b.Finish(bin)
		left = bin
		if res != matched {
			return left, failed
		}
	}
	return left, matched
}

// parseUnary: ('+'|'-') Unary | Primary
func (p *Parser) parseUnary() (ast.Expression, outcome) {
	if !p.atAny(token.Plus, token.Minus) {
		return p.parsePrimary()
	}
	p.b.Start()
	un := &ast.UnaryExpression{Operator: p.bump()}
	operand, res := p.parseUnary()
	un.Operand = operand
	if res == noMatch {
		p.errorExpected(diag.SynExpectExpression, "expression")
		res = failed
	}
	p.b.Finish(un)
	return un, res
}

// parsePrimary: '(' Expression ')' | Identifier ArgumentList | Identifier | Literal
func (p *Parser) parsePrimary() (ast.Expression, outcome) {
	switch {
	case p.at(token.OpenParen):
		return p.parseParenthesed()
	case p.at(token.Identifier):
		p.b.Start()
		name := p.bump()
		if p.at(token.OpenParen) {
			call := &ast.InvocationExpression{Name: name}
			args, res := p.parseArgumentList()
			call.Arguments = args
			p.b.Finish(call)
			return call, res
		}
		acc := &ast.AccessorExpression{Name: name}
		p.b.Finish(acc)
		return acc, matched
	case p.look.Kind.IsLiteral():
		p.b.Start()
		lit := &ast.LiteralExpression{Token: p.bump()}
		p.b.Finish(lit)
		return lit, matched
	default:
		return nil, noMatch
	}
}

// parseParenthesed: '(' Expression ')'
func (p *Parser) parseParenthesed() (ast.Expression, outcome) {
	p.b.Start()
	paren := &ast.ParenthesedExpression{OpenParen: p.bump()}
	finish := func(res outcome) (ast.Expression, outcome) {
		p.b.Finish(paren)
		return paren, res
	}
	inner, res := p.parseExpression()
	paren.Inner = inner
	switch res {
	case noMatch:
		p.errorExpected(diag.SynExpectExpression, "expression")
		return finish(failed)
	case failed:
		return finish(failed)
	}
	closing, ok := p.expectClose(paren.OpenParen, token.CloseParen, diag.SynUnclosedParen)
	paren.CloseParen = closing
	if !ok {
		return finish(failed)
	}
	return finish(matched)
}

// parseArgumentList: '(' (Argument (',' Argument)*)? ')'
func (p *Parser) parseArgumentList() (*ast.ArgumentList, outcome) {
	p.b.Start()
	list := &ast.ArgumentList{OpenParen: p.bump()}
	finish := func(res outcome) (*ast.ArgumentList, outcome) {
		p.b.Finish(list)
		return list, res
	}

	if !p.at(token.CloseParen) {
		for {
			p.b.Start()
			arg := &ast.Argument{}
			value, res := p.parseExpression()
			arg.Value = value
			if res == noMatch {
				p.errorExpected(diag.SynExpectExpression, "expression", token.CloseParen.Spelling())
			}
			p.b.Finish(arg)
			list.Arguments = append(list.Arguments, arg)
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
