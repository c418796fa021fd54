// Package ast defines the concrete syntax tree produced by the parser.
//
// Every node keeps an ordered list of elements: tokens (trivia included) and
// child nodes, exactly in source order. Concatenating the text of all tokens
// reachable from the root reproduces the parsed source. Typed fields on each
// node point at the same tokens and children that live in the element list;
// a field is nil when the parser had to give up before reaching that part.
//
// Leading trivia of a node is the run of trivia tokens placed before its first
// significant token. Nodes are built bottom-up by Builder and never shared
// between parents.
package ast
