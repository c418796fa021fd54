package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bsharp/internal/source"
	"bsharp/internal/token"
)

type TokenOutput struct {
	Kind      string      `json:"kind"`
	Text      string      `json:"text,omitempty"`
	Span      source.Span `json:"span"`
	Line      uint32      `json:"line"`
	Column    uint32      `json:"end_column"`
	Trivia    bool        `json:"trivia,omitempty"`
	Value     any         `json:"value,omitempty"`
	ValueKind string      `json:"value_kind,omitempty"`
	Malformed bool        `json:"malformed,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
// trivia=false прячет пробелы, табы, переводы строк и комментарии.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, trivia bool) error {
	n := 0
	for _, tok := range tokens {
		if tok.IsTrivia() && !trivia {
			continue
		}
		n++
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-20s", n, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if !tok.Value.IsNone() {
			fmt.Fprintf(w, " value=%s", tok.Value.String())
		}
		if tok.Malformed {
			fmt.Fprint(w, " (malformed)")
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// BuildTokensOutput собирает токены для JSON без сериализации.
func BuildTokensOutput(tokens []token.Token, trivia bool) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsTrivia() && !trivia {
			continue
		}
		out := TokenOutput{
			Kind:      tok.Kind.String(),
			Text:      tok.Text,
			Span:      tok.Span,
			Line:      tok.Line,
			Column:    tok.EndColumn,
			Trivia:    tok.IsTrivia(),
			Malformed: tok.Malformed,
		}
		if !tok.Value.IsNone() {
			out.Value = tok.Value.Any()
			out.ValueKind = tok.Value.Kind().String()
		}
		output = append(output, out)

		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, trivia bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(tokens, trivia))
}
