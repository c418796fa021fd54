package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope: детальность события. Меньшее значение - более крупная операция.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // команда CLI, ParseFiles
	ScopePass                    // lex, parse, roundtrip одного файла
	ScopeModule                  // член модуля, обращения к кэшу
	ScopeNode                    // синтаксические ошибки и восстановление
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Op names what the pipeline was doing when the event fired.
// Каждая операция привязана к своему Scope, так что уровень трассировки
// решает, какие операции видны.
type Op uint8

const (
	OpUnknown Op = iota
	OpCommand
	OpParseFiles
	OpLex
	OpParse
	OpRoundTrip
	OpMember
	OpSyntaxError
	OpRecover
	OpCacheHit
	OpCacheMiss
	OpCacheStale
	OpCacheError
	OpHeartbeat
)

var opNames = [...]string{
	OpUnknown:     "unknown",
	OpCommand:     "command",
	OpParseFiles:  "parse_files",
	OpLex:         "lex",
	OpParse:       "parse",
	OpRoundTrip:   "roundtrip",
	OpMember:      "member",
	OpSyntaxError: "syntax_error",
	OpRecover:     "recover",
	OpCacheHit:    "cache_hit",
	OpCacheMiss:   "cache_miss",
	OpCacheStale:  "cache_stale",
	OpCacheError:  "cache_error",
	OpHeartbeat:   "heartbeat",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// Scope returns the granularity the op is reported at.
func (o Op) Scope() Scope {
	switch o {
	case OpCommand, OpParseFiles, OpHeartbeat:
		return ScopeDriver
	case OpLex, OpParse, OpRoundTrip:
		return ScopePass
	case OpMember, OpCacheHit, OpCacheMiss, OpCacheStale, OpCacheError:
		return ScopeModule
	default:
		return ScopeNode
	}
}

// Event: одно событие трассировки.
type Event struct {
	Time     time.Time
	Seq      uint64 // глобальный монотонный номер
	Kind     Kind
	Scope    Scope
	Op       Op
	SpanID   uint64
	ParentID uint64 // 0 у корневых
	GID      uint64 // горутина: ParseFiles разбирает файлы параллельно
	File     string // разбираемый файл, если операция к нему относится
	Detail   string
	Extra    map[string]string
}
