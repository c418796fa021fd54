package token

import (
	"math"
	"strconv"

	"bsharp/internal/source"
)

// Token represents a single source token, trivia included.
type Token struct {
	Kind Kind
	Span source.Span
	// Line and EndColumn are the cursor position right after the token (1-based).
	Line      uint32
	EndColumn uint32
	Text      string
	Value     Value
	Malformed bool
}

// IsTrivia reports whether the token is whitespace, tab, line end or comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsLiteral reports whether the token is a literal, including true/false/null.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// IsEOF reports whether the token is the end-of-input sentinel.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// ValueKind tags the decoded payload of a literal token.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueDouble
	ValueByte
	ValueBool
	ValueChar
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueDouble:
		return "double"
	case ValueByte:
		return "byte"
	case ValueBool:
		return "bool"
	case ValueChar:
		return "char"
	default:
		return "none"
	}
}

// Value is the decoded value of a literal token. The zero Value carries nothing.
// Malformed literals never carry a value.
type Value struct {
	kind ValueKind
	bits uint64
}

func IntValue(v int32) Value {
	return Value{kind: ValueInt, bits: uint64(uint32(v))}
}

func DoubleValue(v float64) Value {
	return Value{kind: ValueDouble, bits: math.Float64bits(v)}
}

func ByteValue(v uint8) Value {
	return Value{kind: ValueByte, bits: uint64(v)}
}

func BoolValue(v bool) Value {
	if v {
		return Value{kind: ValueBool, bits: 1}
	}
	return Value{kind: ValueBool}
}

func CharValue(v rune) Value {
	return Value{kind: ValueChar, bits: uint64(uint32(v))}
}

// Kind returns the tag of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone reports whether no value was decoded.
func (v Value) IsNone() bool { return v.kind == ValueNone }

func (v Value) Int() (int32, bool) {
	if v.kind != ValueInt {
		return 0, false
	}
	return int32(uint32(v.bits)), true
}

func (v Value) Double() (float64, bool) {
	if v.kind != ValueDouble {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

func (v Value) Byte() (uint8, bool) {
	if v.kind != ValueByte {
		return 0, false
	}
	return uint8(v.bits), true
}

func (v Value) Bool() (bool, bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.bits != 0, true
}

func (v Value) Char() (rune, bool) {
	if v.kind != ValueChar {
		return 0, false
	}
	return rune(uint32(v.bits)), true
}

// Any returns the value as a plain Go value (nil for ValueNone).
func (v Value) Any() any {
	switch v.kind {
	case ValueInt:
		x, _ := v.Int()
		return x
	case ValueDouble:
		x, _ := v.Double()
		return x
	case ValueByte:
		x, _ := v.Byte()
		return x
	case ValueBool:
		x, _ := v.Bool()
		return x
	case ValueChar:
		x, _ := v.Char()
		return string(x)
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case ValueInt:
		x, _ := v.Int()
		return strconv.FormatInt(int64(x), 10)
	case ValueDouble:
		x, _ := v.Double()
		return strconv.FormatFloat(x, 'g', -1, 64)
	case ValueByte:
		x, _ := v.Byte()
		return strconv.FormatUint(uint64(x), 10)
	case ValueBool:
		x, _ := v.Bool()
		return strconv.FormatBool(x)
	case ValueChar:
		x, _ := v.Char()
		return strconv.QuoteRune(x)
	default:
		return "none"
	}
}
