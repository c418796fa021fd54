package ast

import (
	"fmt"

	"bsharp/internal/token"
)

// Builder assembles nodes bottom-up from a stack of open frames.
// Tokens go to the innermost frame; Finish closes the frame into a node and
// appends that node to the enclosing frame. StartAt opens a frame that takes
// over elements already pushed, which lets a production decide the node kind
// after looking past its first tokens.
type Builder struct {
	frames [][]Element
}

// Mark is a position inside the innermost frame.
type Mark struct {
	depth int
	index int
}

func NewBuilder() *Builder {
	return &Builder{frames: make([][]Element, 1, 16)}
}

// Depth returns the number of open frames above the root frame.
func (b *Builder) Depth() int { return len(b.frames) - 1 }

// Start opens an empty frame.
func (b *Builder) Start() {
	b.frames = append(b.frames, nil)
}

// Mark returns the current end of the innermost frame.
func (b *Builder) Mark() Mark {
	top := len(b.frames) - 1
	return Mark{depth: top, index: len(b.frames[top])}
}

// StartAt opens a frame that owns every element pushed to the innermost
// frame since m.
func (b *Builder) StartAt(m Mark) {
	top := len(b.frames) - 1
	if m.depth != top || m.index > len(b.frames[top]) {
		panic(fmt.Errorf("ast.Builder: stale mark %+v at depth %d", m, top))
	}
	moved := append([]Element(nil), b.frames[top][m.index:]...)
	b.frames[top] = b.frames[top][:m.index]
	b.frames = append(b.frames, moved)
}

// Token appends tok to the innermost frame.
func (b *Builder) Token(tok *token.Token) {
	top := len(b.frames) - 1
	b.frames[top] = append(b.frames[top], Element{Token: tok})
}

// Finish closes the innermost frame into n and appends n to its parent.
func (b *Builder) Finish(n Node) {
	top := len(b.frames) - 1
	if top == 0 {
		panic("ast.Builder: Finish without Start")
	}
	n.base().elems = b.frames[top]
	b.frames = b.frames[:top]
	b.frames[top-1] = append(b.frames[top-1], Element{Node: n})
}

// Unwind closes every open frame into BadNode wrappers, so no element is
// lost when parsing stops early. It returns the elements of the root frame.
func (b *Builder) Unwind() []Element {
	for b.Depth() > 0 {
		b.Finish(&BadNode{})
	}
	return b.frames[0]
}

// TakeRoot removes and returns the elements of the root frame.
// It must be called with no open frames.
func (b *Builder) TakeRoot() []Element {
	if b.Depth() != 0 {
		panic("ast.Builder: TakeRoot with open frames")
	}
	out := b.frames[0]
	b.frames[0] = nil
	return out
}
