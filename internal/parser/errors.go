package parser

import (
	"fmt"
	"strings"

	"bsharp/internal/diag"
	"bsharp/internal/source"
	"bsharp/internal/token"
)

// SyntaxError: фатальная ошибка strict-режима.
type SyntaxError struct {
	Code     diag.Code
	Path     string
	Pos      source.LineCol
	Found    token.Token
	Message  string
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Code.ID(), e.Message)
	return b.String()
}

// ExpectedList returns the accepted alternatives quoted like the
// "= expected:" line of pretty output: "';', ',', '='".
func (e *SyntaxError) ExpectedList() string {
	quoted := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
