package lexer

import (
	"fmt"
	"unicode/utf8"

	"bsharp/internal/source"

	"fortio.org/safecast"
)

// EOFChar is returned by Peek and Next past the end of input.
// It is never a legal source character.
const EOFChar rune = -1

// Cursor представляет собой позицию в файле.
// Читает UTF-8 руны, считает строки и колонки (1-based, колонка в рунах).
// Строка заканчивается на '\n', '\r\n' или одиночном '\r'.
type Cursor struct {
	File  *source.File
	off   uint32
	limit uint32
	line  uint32
	col   uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		limit: limit,
		line:  1,
		col:   1,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.off >= c.limit
}

func (c *Cursor) Offset() uint32 { return c.off }
func (c *Cursor) Line() uint32   { return c.line }
func (c *Cursor) Column() uint32 { return c.col }

// decode возвращает руну по смещению и её размер в байтах
func (c *Cursor) decode(off uint32) (rune, uint32) {
	b := c.File.Content[off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.File.Content[off:c.limit])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	return r, usz
}

// Peek возвращает руну на offset позиций впереди, не потребляя её.
// За концом ввода возвращает EOFChar.
func (c *Cursor) Peek(offset int) rune {
	if offset < 0 {
		return EOFChar
	}
	off := c.off
	for i := 0; ; i++ {
		if off >= c.limit {
			return EOFChar
		}
		r, sz := c.decode(off)
		if i == offset {
			return r
		}
		off += sz
	}
}

// Next потребляет одну руну и возвращает её (EOFChar в конце).
func (c *Cursor) Next() rune {
	if c.EOF() {
		return EOFChar
	}
	r, sz := c.decode(c.off)
	c.off += sz
	switch {
	case r == '\n':
		c.line++
		c.col = 1
	case r == '\r' && (c.EOF() || c.File.Content[c.off] != '\n'):
		c.line++
		c.col = 1
	default:
		c.col++
	}
	return r
}

// AdvanceIfMatches потребляет lit только при точном совпадении.
func (c *Cursor) AdvanceIfMatches(lit string) bool {
	n, err := safecast.Conv[uint32](len(lit))
	if err != nil || n == 0 || c.limit-c.off < n {
		return false
	}
	if string(c.File.Content[c.off:c.off+n]) != lit {
		return false
	}
	end := c.off + n
	for c.off < end {
		c.Next()
	}
	return true
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.off,
	}
}

// SpanAhead returns the span of the next rune (empty at EOF) without consuming it.
func (c *Cursor) SpanAhead() source.Span {
	sp := source.Span{File: c.File.ID, Start: c.off, End: c.off}
	if !c.EOF() {
		_, sz := c.decode(c.off)
		sp.End += sz
	}
	return sp
}
