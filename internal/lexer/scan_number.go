package lexer

import (
	"errors"
	"strconv"

	"bsharp/internal/diag"
	"bsharp/internal/token"
)

const byteLiteralDigits = 8

// Поддержка: 0b + ровно 8 двоичных цифр (byte), 123 (int32), 12.5 (double).
// Неверные формы: errLex, токен помечается malformed и завершается как есть.
func (lx *Lexer) scanNumber() token.Token {
	if lx.cursor.Peek(0) == '0' && lx.cursor.Peek(1) == 'b' {
		return lx.scanByte()
	}

	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek(0)) {
		lx.cursor.Next()
	}

	if lx.cursor.Peek(0) == '.' {
		if !isDec(lx.cursor.Peek(1)) {
			// "12.": целое остаётся отдельным токеном, '.' лексится следующим
			lx.errLex(diag.LexMissingFraction, lx.cursor.SpanAhead(), "expected digits after '.'")
			return lx.finish(token.IntegerLiteral, start, token.Value{})
		}
		lx.cursor.Next() // '.'
		for isDec(lx.cursor.Peek(0)) {
			lx.cursor.Next()
		}
		sp := lx.cursor.SpanFrom(start)
		f, err := strconv.ParseFloat(string(lx.file.Content[sp.Start:sp.End]), 64)
		if err != nil {
			lx.errLex(diag.LexIntegerOverflow, sp, "double literal out of range")
		}
		return lx.finish(token.DoubleLiteral, start, token.DoubleValue(f))
	}

	sp := lx.cursor.SpanFrom(start)
	n, err := strconv.ParseInt(string(lx.file.Content[sp.Start:sp.End]), 10, 32)
	if err != nil {
		msg := "invalid integer literal"
		if errors.Is(err, strconv.ErrRange) {
			msg = "integer literal does not fit into int"
		}
		lx.errLex(diag.LexIntegerOverflow, sp, msg)
	}
	return lx.finish(token.IntegerLiteral, start, token.IntValue(int32(n)))
}

// scanByte: "0b" и до 8 двоичных цифр, старший бит первым.
// На первой не двоичной позиции: диагностика, сканирование останавливается перед ней.
func (lx *Lexer) scanByte() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.AdvanceIfMatches("0b")

	var value uint8
	for range byteLiteralDigits {
		c := lx.cursor.Peek(0)
		if !isBinary(c) {
			lx.errLex(diag.LexMalformedByteLiteral, lx.cursor.SpanAhead(),
				"expected binary digit, found "+quoteRune(c))
			break
		}
		lx.cursor.Next()
		value = value<<1 | uint8(c-'0')
	}
	return lx.finish(token.ByteLiteral, start, token.ByteValue(value))
}
