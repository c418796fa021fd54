package lexer

import (
	"bsharp/internal/diag"
	"bsharp/internal/token"
)

// scanString: "..." без escape-последовательностей.
// Перевод строки или конец ввода до закрывающей кавычки: диагностика,
// токен заканчивается перед ними.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Next() // opening '"'
	for {
		c := lx.cursor.Peek(0)
		if c == '"' {
			lx.cursor.Next()
			break
		}
		if c == EOFChar || isLineBreak(c) {
			lx.errLex(diag.LexUnterminatedLiteral, lx.cursor.SpanFrom(start), "unterminated string literal")
			break
		}
		lx.cursor.Next()
	}
	return lx.finish(token.StringLiteral, start, token.Value{})
}

// scanChar: ровно один символ между кавычками.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Next() // opening '\''

	var (
		first rune
		count int
	)
	for {
		c := lx.cursor.Peek(0)
		if c == '\'' {
			lx.cursor.Next()
			break
		}
		if c == EOFChar || isLineBreak(c) {
			lx.errLex(diag.LexUnterminatedLiteral, lx.cursor.SpanFrom(start), "unterminated char literal")
			return lx.finish(token.CharLiteral, start, token.Value{})
		}
		if count == 0 {
			first = c
		}
		count++
		lx.cursor.Next()
	}

	switch {
	case count == 0:
		lx.errLex(diag.LexEmptyCharLiteral, lx.cursor.SpanFrom(start), "empty char literal")
	case count > 1:
		lx.errLex(diag.LexTooManyCharsInCharLiteral, lx.cursor.SpanFrom(start), "too many characters in char literal")
	}
	return lx.finish(token.CharLiteral, start, token.CharValue(first))
}
