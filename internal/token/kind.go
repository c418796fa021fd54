package token

import "slices"

// Kind represents the category of a source token.
type Kind uint8

const (
	// None is the classification failure placeholder (unknown character).
	None Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Trivia.
	Whitespace  // ' '+
	Tab         // '\t'+
	EndOfLine   // ('\n'|'\r')+
	LineComment // // ...

	// Identifier represents an identifier token.
	Identifier

	// Keywords.
	KwFor        // for
	KwWhile      // while
	KwBreak      // break
	KwMy         // my
	KwEverybody  // everybody
	KwPublic     // public
	KwPrivate    // private
	KwReturn     // return
	KwIf         // if
	KwElse       // else
	KwModule     // module
	KwNull       // null
	KwTrue       // true
	KwFalse      // false
	KwVoid       // void
	KwBool       // bool
	KwInt        // int
	KwDouble     // double
	KwString     // string
	KwChar       // char
	KwByte       // byte
	KwVar        // var
	KwImplements // implements

	// Literals.
	StringLiteral  // "..."
	CharLiteral    // 'c'
	IntegerLiteral // 123
	DoubleLiteral  // 12.5
	ByteLiteral    // 0b00000001

	// Operators.
	EqualsEquals   // ==
	Equals         // =
	LessEquals     // <=
	Less           // <
	GreaterEquals  // >=
	Greater        // >
	Percent        // %
	PlusEquals     // +=
	Plus           // +
	MinusEquals    // -=
	Minus          // -
	AsteriskEquals // *=
	Asterisk       // *
	SlashEquals    // \=
	Slash          // \ (division)
	Pipe           // |
	Amp            // &

	// Punctuation.
	OpenBracket  // [
	CloseBracket // ]
	OpenParen    // (
	CloseParen   // )
	OpenBrace    // {
	CloseBrace   // }
	Comma        // ,
	Dot          // .
	Semicolon    // ;

	kindCount
)

// Family groups kinds into the four partitions of the enumeration.
type Family uint8

const (
	FamilyNone Family = iota
	FamilySentinel
	FamilyTrivia
	FamilySignificant
)

// Family returns the partition the kind belongs to.
func (k Kind) Family() Family {
	switch {
	case k == None:
		return FamilyNone
	case k == EOF:
		return FamilySentinel
	case k.IsTrivia():
		return FamilyTrivia
	case k < kindCount:
		return FamilySignificant
	default:
		return FamilyNone
	}
}

// IsTrivia reports whether the kind carries no grammatical meaning.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Tab, EndOfLine, LineComment:
		return true
	default:
		return false
	}
}

// IsModifier reports whether the kind is an access modifier.
// my/private and everybody/public are synonyms.
func (k Kind) IsModifier() bool {
	switch k {
	case KwMy, KwEverybody, KwPublic, KwPrivate:
		return true
	default:
		return false
	}
}

// IsTypeKeyword reports whether the kind names a predefined (non-contextual) type.
func (k Kind) IsTypeKeyword() bool {
	switch k {
	case KwVoid, KwBool, KwInt, KwDouble, KwString, KwChar, KwByte:
		return true
	default:
		return false
	}
}

// IsIn reports whether k is one of kinds.
func (k Kind) IsIn(kinds ...Kind) bool {
	return slices.Contains(kinds, k)
}

// IsKeyword reports whether the kind comes from the keyword table.
func (k Kind) IsKeyword() bool {
	return k >= KwFor && k <= KwImplements
}

// IsLiteral reports whether the kind is a literal, including true/false/null.
func (k Kind) IsLiteral() bool {
	switch k {
	case StringLiteral, CharLiteral, IntegerLiteral, DoubleLiteral, ByteLiteral,
		KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the kind is an arithmetic, relational, logical
// or assignment operator.
func (k Kind) IsOperator() bool {
	return k >= EqualsEquals && k <= Amp
}

// IsAssignment reports whether the kind is '=' or a compound assignment.
func (k Kind) IsAssignment() bool {
	switch k {
	case Equals, PlusEquals, MinusEquals, AsteriskEquals, SlashEquals:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the kind is a single-character punctuation token.
func (k Kind) IsPunct() bool {
	return k >= OpenBracket && k <= Semicolon
}
