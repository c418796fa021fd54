package ast

import (
	"bsharp/internal/source"
	"bsharp/internal/token"
)

// Element is one entry in a node's element list: a token or a child node.
type Element struct {
	Token *token.Token
	Node  Node
}

// IsToken reports whether the element holds a token.
func (e Element) IsToken() bool { return e.Token != nil }

type Node interface {
	Kind() NodeKind
	Elements() []Element
	base() *nodeBase
}

type nodeBase struct {
	elems []Element
}

func (b *nodeBase) Elements() []Element { return b.elems }
func (b *nodeBase) base() *nodeBase     { return b }

// Member is a module member: field, method or a skipped fragment.
type Member interface {
	Node
	memberNode()
}

// Statement is anything allowed inside a block.
type Statement interface {
	Node
	stmtNode()
}

// Expression is any expression node.
type Expression interface {
	Node
	exprNode()
}

// Span returns the span from the first to the last token, trivia included.
// Nodes without tokens yield an empty span.
func Span(n Node) source.Span {
	first, last := FirstToken(n, true), LastToken(n)
	if first == nil || last == nil {
		return source.Span{}
	}
	return first.Span.Cover(last.Span)
}

// TrimmedSpan is Span without the leading trivia.
func TrimmedSpan(n Node) source.Span {
	first, last := FirstToken(n, false), LastToken(n)
	if first == nil || last == nil {
		return source.Span{}
	}
	return first.Span.Cover(last.Span)
}

// FirstToken returns the first token of the subtree. With trivia=false the
// first significant token is returned.
func FirstToken(n Node, trivia bool) *token.Token {
	if n == nil {
		return nil
	}
	for _, el := range n.Elements() {
		if el.Token != nil {
			if trivia || isSignificant(el.Token) {
				return el.Token
			}
			continue
		}
		if t := FirstToken(el.Node, trivia); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token of the subtree.
func LastToken(n Node) *token.Token {
	if n == nil {
		return nil
	}
	elems := n.Elements()
	for i := len(elems) - 1; i >= 0; i-- {
		if elems[i].Token != nil {
			return elems[i].Token
		}
		if t := LastToken(elems[i].Node); t != nil {
			return t
		}
	}
	return nil
}

// LeadingTrivia returns the trivia tokens before the node's first significant token.
func LeadingTrivia(n Node) []*token.Token {
	var out []*token.Token
	var walk func(Node) bool
	walk = func(n Node) bool {
		for _, el := range n.Elements() {
			if el.Token != nil {
				if isSignificant(el.Token) {
					return true
				}
				out = append(out, el.Token)
				continue
			}
			if walk(el.Node) {
				return true
			}
		}
		return false
	}
	if n != nil {
		walk(n)
	}
	return out
}

// isSignificant: unknown-symbol tokens travel with trivia, see parser.
func isSignificant(t *token.Token) bool {
	return !t.IsTrivia() && t.Kind != token.None
}
