package ast

import "bsharp/internal/token"

// AssignKind tells which right-hand sides an assignment accepts.
type AssignKind uint8

const (
	// AssignConstant accepts only constant expressions (field initializers).
	AssignConstant AssignKind = iota
	// AssignGeneral accepts any expression.
	AssignGeneral
)

func (k AssignKind) String() string {
	if k == AssignConstant {
		return "constant"
	}
	return "general"
}

// AssignmentExpression ::= Target? AssignOp Expression
// Inside a declarator Target is nil: the declarator's name is the target.
type AssignmentExpression struct {
	nodeBase
	Assign   AssignKind
	Target   Expression
	Operator *token.Token
	Value    Expression
}

func (*AssignmentExpression) Kind() NodeKind { return KindAssignmentExpression }
func (*AssignmentExpression) exprNode()      {}

type BinaryExpression struct {
	nodeBase
	Left     Expression
	Operator *token.Token
	Right    Expression
}

func (*BinaryExpression) Kind() NodeKind { return KindBinaryExpression }
func (*BinaryExpression) exprNode()      {}

type UnaryExpression struct {
	nodeBase
	Operator *token.Token
	Operand  Expression
}

func (*UnaryExpression) Kind() NodeKind { return KindUnaryExpression }
func (*UnaryExpression) exprNode()      {}

type ParenthesedExpression struct {
	nodeBase
	OpenParen  *token.Token
	Inner      Expression
	CloseParen *token.Token
}

func (*ParenthesedExpression) Kind() NodeKind { return KindParenthesedExpression }
func (*ParenthesedExpression) exprNode()      {}

// InvocationExpression ::= Identifier ArgumentList
type InvocationExpression struct {
	nodeBase
	Name      *token.Token
	Arguments *ArgumentList
}

func (*InvocationExpression) Kind() NodeKind { return KindInvocationExpression }
func (*InvocationExpression) exprNode()      {}

type ArgumentList struct {
	nodeBase
	OpenParen  *token.Token
	Arguments  []*Argument
	CloseParen *token.Token
}

func (*ArgumentList) Kind() NodeKind { return KindArgumentList }

type Argument struct {
	nodeBase
	Value Expression
}

func (*Argument) Kind() NodeKind { return KindArgument }

// AccessorExpression is a plain name reference.
type AccessorExpression struct {
	nodeBase
	Name *token.Token
}

func (*AccessorExpression) Kind() NodeKind { return KindAccessorExpression }
func (*AccessorExpression) exprNode()      {}

// LiteralExpression wraps a literal token, true/false/null included.
type LiteralExpression struct {
	nodeBase
	Token *token.Token
}

func (*LiteralExpression) Kind() NodeKind { return KindLiteralExpression }
func (*LiteralExpression) exprNode()      {}

// IsConstant reports whether e is built only from literals and operators.
func IsConstant(e Expression) bool {
	switch x := e.(type) {
	case *LiteralExpression:
		return true
	case *UnaryExpression:
		return IsConstant(x.Operand)
	case *BinaryExpression:
		return IsConstant(x.Left) && IsConstant(x.Right)
	case *ParenthesedExpression:
		return IsConstant(x.Inner)
	default:
		return false
	}
}
