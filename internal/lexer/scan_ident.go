package lexer

import (
	"bsharp/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [Identifier] и проверяет через LookupKeyword.
// Ключевые слова регистрозависимые. Token.Text: ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Next()
	for isIdentContinueRune(lx.cursor.Peek(0)) {
		lx.cursor.Next()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if k, ok := token.LookupKeyword(text); ok {
		var v token.Value
		switch k {
		case token.KwTrue:
			v = token.BoolValue(true)
		case token.KwFalse:
			v = token.BoolValue(false)
		}
		return lx.finish(k, start, v)
	}
	return lx.finish(token.Identifier, start, token.Value{})
}
