package lexer

import (
	"bsharp/internal/diag"
	"bsharp/internal/token"
)

// scanTrivia выдаёт один trivia-токен:
// - ' '+ -> Whitespace, '\t'+ -> Tab (не смешиваются)
// - подряд идущие '\n' и '\r' -> один EndOfLine
// - //... до конца строки или ввода -> LineComment
// - одиночный '/' -> диагностика и malformed LineComment из одного символа
func (lx *Lexer) scanTrivia() token.Token {
	start := lx.cursor.Mark()
	switch lx.cursor.Peek(0) {
	case '/':
		if !lx.cursor.AdvanceIfMatches("//") {
			lx.cursor.Next()
			lx.errLex(diag.LexMalformedCommentPrefix, lx.cursor.SpanFrom(start), "expected '//' to start a comment")
			return lx.finish(token.LineComment, start, token.Value{})
		}
		for c := lx.cursor.Peek(0); c != EOFChar && !isLineBreak(c); c = lx.cursor.Peek(0) {
			lx.cursor.Next()
		}
		return lx.finish(token.LineComment, start, token.Value{})
	case '\t':
		lx.eatWhile(func(r rune) bool { return r == '\t' })
		return lx.finish(token.Tab, start, token.Value{})
	case ' ':
		lx.eatWhile(func(r rune) bool { return r == ' ' })
		return lx.finish(token.Whitespace, start, token.Value{})
	default:
		lx.eatWhile(isLineBreak)
		return lx.finish(token.EndOfLine, start, token.Value{})
	}
}

func (lx *Lexer) eatWhile(pred func(rune) bool) {
	for c := lx.cursor.Peek(0); c != EOFChar && pred(c); c = lx.cursor.Peek(0) {
		lx.cursor.Next()
	}
}
