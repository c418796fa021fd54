package driver

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"bsharp/internal/ast"
	"bsharp/internal/diag"
	"bsharp/internal/parser"
	"bsharp/internal/source"
	"bsharp/internal/token"
)

// CheckRoundTrip проверяет, что склейка текстов токенов и текст дерева
// (корень + хвостовые элементы) совпадают с содержимым файла байт в байт.
// tokens == nil пропускает проверку токенов; без корня (strict, отмена)
// дерево не проверяется.
func CheckRoundTrip(file *source.File, tokens []token.Token, res parser.Result) []diag.Diagnostic {
	var out []diag.Diagnostic
	content := string(file.Content)

	if tokens != nil {
		var b strings.Builder
		b.Grow(len(content))
		for i := range tokens {
			b.WriteString(tokens[i].Text)
		}
		if d, bad := compareText(file, "token stream", b.String(), content); bad {
			out = append(out, d)
		}
	}

	if res.Root != nil {
		var b strings.Builder
		b.Grow(len(content))
		b.WriteString(ast.Text(res.Root))
		for tok := range ast.ElementTokens(res.Trailing) {
			b.WriteString(tok.Text)
		}
		if d, bad := compareText(file, "syntax tree", b.String(), content); bad {
			out = append(out, d)
		}
	}
	return out
}

func compareText(file *source.File, what, got, want string) (diag.Diagnostic, bool) {
	if got == want {
		return diag.Diagnostic{}, false
	}
	n := min(len(got), len(want))
	at := n
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			at = i
			break
		}
	}
	off, err := safecast.Conv[uint32](at)
	if err != nil {
		panic(fmt.Errorf("round trip offset overflow: %w", err))
	}
	end := off
	if at < len(want) {
		end++
	}
	msg := fmt.Sprintf("%s does not reproduce the source: first difference at byte %d (%d bytes produced, %d expected)",
		what, at, len(got), len(want))
	return diag.NewError(diag.ObsRoundTripMismatch, source.Span{File: file.ID, Start: off, End: end}, msg), true
}
