package ast

import (
	"strings"

	"bsharp/internal/token"
)

// CompilationUnit ::= ImplementsDirective* ModuleDeclaration
type CompilationUnit struct {
	nodeBase
	Implements []*ImplementsDirective
	Module     *ModuleDeclaration
}

func (*CompilationUnit) Kind() NodeKind { return KindCompilationUnit }

// ImplementsDirective ::= 'implements' (Identifier | '.')+ ';'
type ImplementsDirective struct {
	nodeBase
	Keyword   *token.Token
	Name      []*token.Token // Identifier and Dot tokens in order
	Semicolon *token.Token
}

func (*ImplementsDirective) Kind() NodeKind { return KindImplementsDirective }

// QualifiedName joins the dotted name parts, e.g. "Foo.Bar".
func (d *ImplementsDirective) QualifiedName() string {
	var b strings.Builder
	for _, t := range d.Name {
		b.WriteString(t.Text)
	}
	return b.String()
}

// ModuleDeclaration ::= 'module' Identifier '{' Member* '}'
type ModuleDeclaration struct {
	nodeBase
	Keyword    *token.Token
	Name       *token.Token
	OpenBrace  *token.Token
	Members    []Member
	CloseBrace *token.Token
}

func (*ModuleDeclaration) Kind() NodeKind { return KindModuleDeclaration }

// FieldDeclaration ::= Modifier VariableDeclaration ';'
type FieldDeclaration struct {
	nodeBase
	Modifier    *token.Token
	Declaration *VariableDeclaration
	Semicolon   *token.Token
}

func (*FieldDeclaration) Kind() NodeKind { return KindFieldDeclaration }
func (*FieldDeclaration) memberNode()    {}

// MethodDeclaration ::= Modifier PredefinedType Identifier ParameterList Block
type MethodDeclaration struct {
	nodeBase
	Modifier   *token.Token
	ReturnType *PredefinedType
	Name       *token.Token
	Parameters *ParameterList
	Body       *Block
}

func (*MethodDeclaration) Kind() NodeKind { return KindMethodDeclaration }
func (*MethodDeclaration) memberNode()    {}

// PredefinedType ::= TypeKeyword ArrayRankSpecifier?
type PredefinedType struct {
	nodeBase
	Keyword *token.Token
	Rank    *ArrayRankSpecifier
}

func (*PredefinedType) Kind() NodeKind { return KindPredefinedType }

// ArrayRankSpecifier ::= '[' Expression ']'
type ArrayRankSpecifier struct {
	nodeBase
	OpenBracket  *token.Token
	Size         Expression
	CloseBracket *token.Token
}

func (*ArrayRankSpecifier) Kind() NodeKind { return KindArrayRankSpecifier }

// ParameterList ::= '(' (Parameter (',' Parameter)*)? ')'
type ParameterList struct {
	nodeBase
	OpenParen  *token.Token
	Parameters []*Parameter
	CloseParen *token.Token
}

func (*ParameterList) Kind() NodeKind { return KindParameterList }

// Parameter ::= PredefinedType Identifier
type Parameter struct {
	nodeBase
	Type *PredefinedType
	Name *token.Token
}

func (*Parameter) Kind() NodeKind { return KindParameter }

// VariableDeclaration ::= (PredefinedType | 'var') VariableDeclarator (',' VariableDeclarator)*
// Type is nil when the declaration uses 'var'.
type VariableDeclaration struct {
	nodeBase
	Type        *PredefinedType
	Var         *token.Token
	Declarators []*VariableDeclarator
}

func (*VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

// VariableDeclarator ::= Identifier AssignmentExpression?
type VariableDeclarator struct {
	nodeBase
	Name        *token.Token
	Initializer *AssignmentExpression
}

func (*VariableDeclarator) Kind() NodeKind { return KindVariableDeclarator }

// BadNode wraps tokens skipped while recovering from a syntax error.
type BadNode struct {
	nodeBase
}

func (*BadNode) Kind() NodeKind { return KindBad }
func (*BadNode) memberNode()    {}
func (*BadNode) stmtNode()      {}
func (*BadNode) exprNode()      {}
