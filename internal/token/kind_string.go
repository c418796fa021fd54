package token

import "strconv"

var kindNames = [...]string{
	None:           "None",
	EOF:            "EOF",
	Whitespace:     "Whitespace",
	Tab:            "Tab",
	EndOfLine:      "EndOfLine",
	LineComment:    "LineComment",
	Identifier:     "Identifier",
	KwFor:          "KwFor",
	KwWhile:        "KwWhile",
	KwBreak:        "KwBreak",
	KwMy:           "KwMy",
	KwEverybody:    "KwEverybody",
	KwPublic:       "KwPublic",
	KwPrivate:      "KwPrivate",
	KwReturn:       "KwReturn",
	KwIf:           "KwIf",
	KwElse:         "KwElse",
	KwModule:       "KwModule",
	KwNull:         "KwNull",
	KwTrue:         "KwTrue",
	KwFalse:        "KwFalse",
	KwVoid:         "KwVoid",
	KwBool:         "KwBool",
	KwInt:          "KwInt",
	KwDouble:       "KwDouble",
	KwString:       "KwString",
	KwChar:         "KwChar",
	KwByte:         "KwByte",
	KwVar:          "KwVar",
	KwImplements:   "KwImplements",
	StringLiteral:  "StringLiteral",
	CharLiteral:    "CharLiteral",
	IntegerLiteral: "IntegerLiteral",
	DoubleLiteral:  "DoubleLiteral",
	ByteLiteral:    "ByteLiteral",
	EqualsEquals:   "EqualsEquals",
	Equals:         "Equals",
	LessEquals:     "LessEquals",
	Less:           "Less",
	GreaterEquals:  "GreaterEquals",
	Greater:        "Greater",
	Percent:        "Percent",
	PlusEquals:     "PlusEquals",
	Plus:           "Plus",
	MinusEquals:    "MinusEquals",
	Minus:          "Minus",
	AsteriskEquals: "AsteriskEquals",
	Asterisk:       "Asterisk",
	SlashEquals:    "SlashEquals",
	Slash:          "Slash",
	Pipe:           "Pipe",
	Amp:            "Amp",
	OpenBracket:    "OpenBracket",
	CloseBracket:   "CloseBracket",
	OpenParen:      "OpenParen",
	CloseParen:     "CloseParen",
	OpenBrace:      "OpenBrace",
	CloseBrace:     "CloseBrace",
	Comma:          "Comma",
	Dot:            "Dot",
	Semicolon:      "Semicolon",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// fixed spellings, used in "expected ..." messages
var kindSpellings = map[Kind]string{
	EqualsEquals: "==", Equals: "=", LessEquals: "<=", Less: "<",
	GreaterEquals: ">=", Greater: ">", Percent: "%", PlusEquals: "+=",
	Plus: "+", MinusEquals: "-=", Minus: "-", AsteriskEquals: "*=",
	Asterisk: "*", SlashEquals: `\=`, Slash: `\`, Pipe: "|", Amp: "&",
	OpenBracket: "[", CloseBracket: "]", OpenParen: "(", CloseParen: ")",
	OpenBrace: "{", CloseBrace: "}", Comma: ",", Dot: ".", Semicolon: ";",
	Identifier: "identifier", EOF: "end of input",
	StringLiteral: "string literal", CharLiteral: "char literal",
	IntegerLiteral: "integer literal", DoubleLiteral: "double literal",
	ByteLiteral: "byte literal",
}

// Spelling returns the source form of the kind for diagnostics:
// `;` for Semicolon, `module` for KwModule, "identifier" for Identifier.
func (k Kind) Spelling() string {
	if s, ok := kindSpellings[k]; ok {
		return s
	}
	if k.IsKeyword() {
		return keywordSpelling[k]
	}
	return k.String()
}
