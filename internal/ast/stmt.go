package ast

import "bsharp/internal/token"

// Block ::= '{' Statement* '}'
type Block struct {
	nodeBase
	OpenBrace  *token.Token
	Statements []Statement
	CloseBrace *token.Token
}

func (*Block) Kind() NodeKind { return KindBlock }
func (*Block) stmtNode()      {}

type LocalDeclarationStatement struct {
	nodeBase
	Declaration *VariableDeclaration
	Semicolon   *token.Token
}

func (*LocalDeclarationStatement) Kind() NodeKind { return KindLocalDeclarationStatement }
func (*LocalDeclarationStatement) stmtNode()      {}

type ReturnStatement struct {
	nodeBase
	Keyword   *token.Token
	Value     Expression // nil for a bare return
	Semicolon *token.Token
}

func (*ReturnStatement) Kind() NodeKind { return KindReturnStatement }
func (*ReturnStatement) stmtNode()      {}

type BreakStatement struct {
	nodeBase
	Keyword   *token.Token
	Semicolon *token.Token
}

func (*BreakStatement) Kind() NodeKind { return KindBreakStatement }
func (*BreakStatement) stmtNode()      {}

type IfStatement struct {
	nodeBase
	Keyword     *token.Token
	OpenParen   *token.Token
	Condition   Expression
	CloseParen  *token.Token
	Then        Statement
	ElseKeyword *token.Token
	Else        Statement
}

func (*IfStatement) Kind() NodeKind { return KindIfStatement }
func (*IfStatement) stmtNode()      {}

type WhileStatement struct {
	nodeBase
	Keyword    *token.Token
	OpenParen  *token.Token
	Condition  Expression
	CloseParen *token.Token
	Body       Statement
}

func (*WhileStatement) Kind() NodeKind { return KindWhileStatement }
func (*WhileStatement) stmtNode()      {}

// ExpressionStatement ::= Expression ';'
// Assignments are expressions here: `x += 1;` holds an AssignmentExpression.
type ExpressionStatement struct {
	nodeBase
	Expression Expression
	Semicolon  *token.Token
}

func (*ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }
func (*ExpressionStatement) stmtNode()      {}
