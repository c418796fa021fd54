package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                      Code = 1000
	LexUnexpectedSymbol          Code = 1001
	LexUnterminatedLiteral       Code = 1002
	LexEmptyCharLiteral          Code = 1003
	LexTooManyCharsInCharLiteral Code = 1004
	LexMalformedByteLiteral      Code = 1005
	LexMalformedCommentPrefix    Code = 1006
	LexMissingFraction           Code = 1007
	LexIntegerOverflow           Code = 1008

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectType       Code = 2004
	SynExpectExpression Code = 2005
	SynExpectStatement  Code = 2006
	SynExpectMember     Code = 2007
	SynExpectModule     Code = 2008
	SynExpectConstant   Code = 2009
	SynUnclosedBrace    Code = 2010
	SynUnclosedParen    Code = 2011
	SynUnclosedBracket  Code = 2012
	SynTrailingInput    Code = 2013
	SynTooManyErrors    Code = 2014

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проект
	ProjManifestError Code = 5001

	// Проверки
	ObsRoundTripMismatch Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	LexInfo:                      "Lexical information",
	LexUnexpectedSymbol:          "Unexpected symbol",
	LexUnterminatedLiteral:       "Unterminated literal",
	LexEmptyCharLiteral:          "Empty char literal",
	LexTooManyCharsInCharLiteral: "Too many characters in char literal",
	LexMalformedByteLiteral:      "Malformed byte literal",
	LexMalformedCommentPrefix:    "Malformed comment prefix",
	LexMissingFraction:           "Missing fractional part",
	LexIntegerOverflow:           "Integer literal overflow",
	SynInfo:                      "Syntax information",
	SynUnexpectedToken:           "Unexpected token",
	SynExpectSemicolon:           "Expect semicolon",
	SynExpectIdentifier:          "Expect identifier",
	SynExpectType:                "Expect type",
	SynExpectExpression:          "Expect expression",
	SynExpectStatement:           "Expect statement",
	SynExpectMember:              "Expect member declaration",
	SynExpectModule:              "Expect module declaration",
	SynExpectConstant:            "Expect constant expression",
	SynUnclosedBrace:             "Unclosed brace",
	SynUnclosedParen:             "Unclosed parenthesis",
	SynUnclosedBracket:           "Unclosed bracket",
	SynTrailingInput:             "Unexpected input after declaration",
	SynTooManyErrors:             "Too many syntax errors",
	IOLoadFileError:              "Failed to load file",
	IOCacheError:                 "Cache failure",
	ProjManifestError:            "Invalid project manifest",
	ObsRoundTripMismatch:         "Round trip mismatch",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
