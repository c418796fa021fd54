package lexer

import (
	"bsharp/internal/token"
)

type operatorSpelling struct {
	text string
	kind token.Kind
}

// Жадность: двухсимвольная форма проверяется раньше односимвольной.
var operators = []operatorSpelling{
	{"==", token.EqualsEquals},
	{"=", token.Equals},
	{"<=", token.LessEquals},
	{"<", token.Less},
	{">=", token.GreaterEquals},
	{">", token.Greater},
	{"%", token.Percent},
	{"+=", token.PlusEquals},
	{"+", token.Plus},
	{"-=", token.MinusEquals},
	{"-", token.Minus},
	{"*=", token.AsteriskEquals},
	{"*", token.Asterisk},
	{`\=`, token.SlashEquals},
	{`\`, token.Slash},
	{"|", token.Pipe},
	{"&", token.Amp},
}

var punctKinds = map[rune]token.Kind{
	'[': token.OpenBracket,
	']': token.CloseBracket,
	'(': token.OpenParen,
	')': token.CloseParen,
	'{': token.OpenBrace,
	'}': token.CloseBrace,
	',': token.Comma,
	'.': token.Dot,
	';': token.Semicolon,
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	for _, op := range operators {
		if lx.cursor.AdvanceIfMatches(op.text) {
			return lx.finish(op.kind, start, token.Value{})
		}
	}
	// недостижимо: isOperatorStart покрывает ровно первые символы таблицы
	lx.cursor.Next()
	return lx.finish(token.None, start, token.Value{})
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	kind := punctKinds[lx.cursor.Next()]
	return lx.finish(kind, start, token.Value{})
}
