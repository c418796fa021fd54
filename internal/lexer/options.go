package lexer

import (
	"bsharp/internal/diag"
	"bsharp/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки только копятся в Diagnostics()
}

// errLex записывает диагностику и помечает текущий токен как malformed.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	d := diag.NewError(code, sp, msg)
	lx.diags = append(lx.diags, d)
	lx.malformed = true
	diag.Emit(lx.opts.Reporter, d)
}
