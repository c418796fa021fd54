package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bsharp/internal/ast"
	"bsharp/internal/source"
	"bsharp/internal/token"
)

// CheckTreeInvariants runs the structural invariants on a parse result:
//
//  1. tokens of root and trailing elements tile the file: they start at 0,
//     are contiguous, end at len(content) and carry the file's text
//  2. every token points to sf
//  3. every node's span lies inside its parent's span and children are in order
func CheckTreeInvariants(root ast.Node, trailing []ast.Element, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var next uint32
	check := func(tok *token.Token) error {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %s %q points to file %d, want %d", tok.Kind, tok.Text, sp.File, sf.ID)
		}
		if sp.Start != next {
			return fmt.Errorf("token %s %q starts at %d, previous ended at %d", tok.Kind, tok.Text, sp.Start, next)
		}
		if sp.End > lenContent || sp.End < sp.Start {
			return fmt.Errorf("token %s span %v out of bounds", tok.Kind, sp)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %s text %q does not match source %q", tok.Kind, tok.Text, got)
		}
		next = sp.End
		return nil
	}

	if root != nil {
		for tok := range ast.Tokens(root) {
			if err := check(tok); err != nil {
				return err
			}
		}
		if err := checkNesting(root); err != nil {
			return err
		}
	}
	for tok := range ast.ElementTokens(trailing) {
		if err := check(tok); err != nil {
			return err
		}
	}
	for _, el := range trailing {
		if el.Node != nil {
			if err := checkNesting(el.Node); err != nil {
				return err
			}
		}
	}
	if next != lenContent {
		return fmt.Errorf("tokens end at %d, file has %d bytes", next, lenContent)
	}
	return nil
}

func checkNesting(n ast.Node) error {
	outer := ast.Span(n)
	var prevEnd uint32
	havePrev := false
	for _, child := range ast.Children(n) {
		inner := ast.Span(child)
		if inner.Empty() && ast.FirstToken(child, true) == nil {
			// узел без токенов (после ошибки) ничего не покрывает
			continue
		}
		if !outer.Contains(inner) {
			return fmt.Errorf("%s span %v is outside %s span %v", child.Kind(), inner, n.Kind(), outer)
		}
		if havePrev && inner.Start < prevEnd {
			return fmt.Errorf("%s at %v overlaps its previous sibling in %s", child.Kind(), inner, n.Kind())
		}
		prevEnd, havePrev = inner.End, true
		if err := checkNesting(child); err != nil {
			return err
		}
	}
	return nil
}

// CountKinds returns how many nodes of each kind the tree holds.
func CountKinds(root ast.Node) map[ast.NodeKind]int {
	out := make(map[ast.NodeKind]int)
	ast.Inspect(root, func(n ast.Node) bool {
		out[n.Kind()]++
		return true
	})
	return out
}
