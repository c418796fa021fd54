package token

var keywords = map[string]Kind{
	"for":        KwFor,
	"while":      KwWhile,
	"break":      KwBreak,
	"my":         KwMy,
	"everybody":  KwEverybody,
	"public":     KwPublic,
	"private":    KwPrivate,
	"return":     KwReturn,
	"if":         KwIf,
	"else":       KwElse,
	"module":     KwModule,
	"null":       KwNull,
	"true":       KwTrue,
	"false":      KwFalse,
	"void":       KwVoid,
	"bool":       KwBool,
	"int":        KwInt,
	"double":     KwDouble,
	"string":     KwString,
	"char":       KwChar,
	"byte":       KwByte,
	"var":        KwVar,
	"implements": KwImplements,
}

var keywordSpelling = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		out[k] = s
	}
	return out
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
