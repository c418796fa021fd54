package ast

import (
	"iter"
	"strings"

	"bsharp/internal/token"
)

// Visitor is called for every node; returning nil skips the children.
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses the tree depth-first in source order.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	for _, el := range n.Elements() {
		if el.Node != nil {
			Walk(v, el.Node)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for every node in source order; f returning false prunes.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Children returns the direct child nodes of n.
func Children(n Node) []Node {
	var out []Node
	for _, el := range n.Elements() {
		if el.Node != nil {
			out = append(out, el.Node)
		}
	}
	return out
}

// Tokens yields every token of the subtree in source order, trivia included.
func Tokens(n Node) iter.Seq[*token.Token] {
	return func(yield func(*token.Token) bool) {
		walkTokens(n, yield)
	}
}

// ElementTokens yields the tokens of a loose element list.
func ElementTokens(elems []Element) iter.Seq[*token.Token] {
	return func(yield func(*token.Token) bool) {
		for _, el := range elems {
			if el.Token != nil {
				if !yield(el.Token) {
					return
				}
				continue
			}
			if !walkTokens(el.Node, yield) {
				return
			}
		}
	}
}

func walkTokens(n Node, yield func(*token.Token) bool) bool {
	if n == nil {
		return true
	}
	for _, el := range n.Elements() {
		if el.Token != nil {
			if !yield(el.Token) {
				return false
			}
			continue
		}
		if !walkTokens(el.Node, yield) {
			return false
		}
	}
	return true
}

// Text reconstructs the source text of the subtree, trivia included.
func Text(n Node) string {
	var b strings.Builder
	for t := range Tokens(n) {
		b.WriteString(t.Text)
	}
	return b.String()
}

// SignificantText joins the significant tokens of the subtree with single spaces.
func SignificantText(n Node) string {
	var parts []string
	for t := range Tokens(n) {
		if isSignificant(t) {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}
