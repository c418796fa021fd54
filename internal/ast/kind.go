package ast

type NodeKind uint8

const (
	KindBad NodeKind = iota
	KindCompilationUnit
	KindImplementsDirective
	KindModuleDeclaration
	KindFieldDeclaration
	KindMethodDeclaration
	KindPredefinedType
	KindArrayRankSpecifier
	KindParameterList
	KindParameter
	KindVariableDeclaration
	KindVariableDeclarator
	KindAssignmentExpression
	KindBlock
	KindLocalDeclarationStatement
	KindReturnStatement
	KindBreakStatement
	KindIfStatement
	KindWhileStatement
	KindExpressionStatement
	KindBinaryExpression
	KindUnaryExpression
	KindParenthesedExpression
	KindInvocationExpression
	KindArgumentList
	KindArgument
	KindAccessorExpression
	KindLiteralExpression
)

var nodeKindNames = [...]string{
	KindBad:                       "BadNode",
	KindCompilationUnit:           "CompilationUnit",
	KindImplementsDirective:       "ImplementsDirective",
	KindModuleDeclaration:         "ModuleDeclaration",
	KindFieldDeclaration:          "FieldDeclaration",
	KindMethodDeclaration:         "MethodDeclaration",
	KindPredefinedType:            "PredefinedType",
	KindArrayRankSpecifier:        "ArrayRankSpecifier",
	KindParameterList:             "ParameterList",
	KindParameter:                 "Parameter",
	KindVariableDeclaration:       "VariableDeclaration",
	KindVariableDeclarator:        "VariableDeclarator",
	KindAssignmentExpression:      "AssignmentExpression",
	KindBlock:                     "Block",
	KindLocalDeclarationStatement: "LocalDeclarationStatement",
	KindReturnStatement:           "ReturnStatement",
	KindBreakStatement:            "BreakStatement",
	KindIfStatement:               "IfStatement",
	KindWhileStatement:            "WhileStatement",
	KindExpressionStatement:       "ExpressionStatement",
	KindBinaryExpression:          "BinaryExpression",
	KindUnaryExpression:           "UnaryExpression",
	KindParenthesedExpression:     "ParenthesedExpression",
	KindInvocationExpression:      "InvocationExpression",
	KindArgumentList:              "ArgumentList",
	KindArgument:                  "Argument",
	KindAccessorExpression:        "AccessorExpression",
	KindLiteralExpression:         "LiteralExpression",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}
