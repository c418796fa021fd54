package lexer

import (
	"strconv"
	"unicode"
)

// ===== Классификаторы =====

func isIdentStartRune(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= utf8RuneSelf && unicode.IsLetter(r))
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || isDec(r) ||
		(r >= utf8RuneSelf && unicode.IsDigit(r))
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isBinary(r rune) bool { return r == '0' || r == '1' }

func isLineBreak(r rune) bool { return r == '\n' || r == '\r' }

func isTriviaStart(r rune) bool {
	switch r {
	case '/', '\t', '\n', '\r', ' ':
		return true
	}
	return false
}

func isOperatorStart(r rune) bool {
	switch r {
	case '=', '<', '>', '%', '+', '-', '*', '\\', '|', '&':
		return true
	}
	return false
}

func isPunct(r rune) bool {
	_, ok := punctKinds[r]
	return ok
}

func quoteRune(r rune) string {
	if r == EOFChar {
		return "end of input"
	}
	return strconv.QuoteRune(r)
}
