package lexer

import (
	"iter"

	"bsharp/internal/diag"
	"bsharp/internal/source"
	"bsharp/internal/token"
)

// Lexer выдаёт токены по одному, trivia включительно.
// Конкатенация Text всех токенов до EOF равна исходному тексту.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	diags  []diag.Diagnostic
	// malformed выставляется errLex и сбрасывается при выдаче токена
	malformed bool
	done      bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Diagnostics returns lexical diagnostics collected so far, in emission order.
func (lx *Lexer) Diagnostics() []diag.Diagnostic { return lx.diags }

// Next возвращает следующий токен (значимый или trivia).
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.done {
		return lx.eof()
	}

	lx.malformed = false
	ch := lx.cursor.Peek(0)
	switch {
	case ch == EOFChar:
		lx.done = true
		return lx.eof()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	case isDec(ch):
		return lx.scanNumber()
	case isIdentStartRune(ch):
		return lx.scanIdentOrKeyword()
	case isTriviaStart(ch):
		return lx.scanTrivia()
	case isOperatorStart(ch):
		return lx.scanOperator()
	case isPunct(ch):
		return lx.scanPunct()
	default:
		start := lx.cursor.Mark()
		lx.errLex(diag.LexUnexpectedSymbol, lx.cursor.SpanAhead(), "unexpected symbol "+quoteRune(ch))
		lx.cursor.Next()
		return lx.finish(token.None, start, token.Value{})
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokens returns the remaining tokens as a single-pass sequence.
// The last element is the EOF token.
func (lx *Lexer) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// finish собирает токен от метки до курсора и проставляет позицию после него.
// Значение сохраняется только у корректных токенов.
func (lx *Lexer) finish(kind token.Kind, start Mark, value token.Value) token.Token {
	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{
		Kind:      kind,
		Span:      sp,
		Line:      lx.cursor.Line(),
		EndColumn: lx.cursor.Column(),
		Text:      string(lx.file.Content[sp.Start:sp.End]),
		Malformed: lx.malformed,
	}
	if !tok.Malformed {
		tok.Value = value
	}
	lx.malformed = false
	return tok
}

func (lx *Lexer) eof() token.Token {
	return token.Token{
		Kind:      token.EOF,
		Span:      lx.cursor.SpanFrom(lx.cursor.Mark()),
		Line:      lx.cursor.Line(),
		EndColumn: lx.cursor.Column(),
	}
}
