package parser

import (
	"bsharp/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет. Все уровни левоассоциативны.
const (
	precNone           = 0
	precOr             = 1 // |
	precAnd            = 2 // &
	precEquality       = 3 // ==
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * \
	precModulo         = 7 // %
)

// binaryPrec возвращает приоритет оператора или precNone для не-бинарных токенов.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Pipe:
		return precOr
	case token.Amp:
		return precAnd
	case token.EqualsEquals:
		return precEquality
	case token.Less, token.LessEquals, token.Greater, token.GreaterEquals:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Asterisk, token.Slash:
		return precMultiplicative
	case token.Percent:
		return precModulo
	default:
		return precNone
	}
}
