package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"bsharp/internal/diag"
	"bsharp/internal/source"
)

// editKind: что правка делает с исходником.
type editKind uint8

const (
	editInsert editKind = iota // пустой span, есть текст (вставка ';')
	editDelete
	editReplace
)

func (k editKind) String() string {
	switch k {
	case editInsert:
		return "insert"
	case editDelete:
		return "delete"
	default:
		return "replace"
	}
}

func classifyEdit(edit diag.FixEdit) editKind {
	switch {
	case edit.Span.Empty():
		return editInsert
	case edit.NewText == "":
		return editDelete
	default:
		return editReplace
	}
}

// fixPreview: строки, затронутые правкой, до и после неё.
type fixPreview struct {
	kind   editKind
	before []string
	after  []string
	// marker подчёркивает новый текст в after[0]; пуст, если правка
	// многострочная
	marker string
}

var errNoPreview = errors.New("edit outside of the file")

func buildFixPreview(fs *source.FileSet, edit diag.FixEdit) (fixPreview, error) {
	if fs == nil {
		return fixPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(file.Content) {
		return fixPreview{}, errNoPreview
	}

	blockStart, blockEnd := lineBlock(file, int(edit.Span.Start), int(edit.Span.End))
	head := string(file.Content[blockStart:edit.Span.Start])
	tail := string(file.Content[edit.Span.End:blockEnd])

	p := fixPreview{
		kind:   classifyEdit(edit),
		before: previewLines(string(file.Content[blockStart:blockEnd])),
		after:  previewLines(head + edit.NewText + tail),
	}
	if !strings.ContainsAny(edit.NewText, "\r\n") && !strings.ContainsAny(file.Text(edit.Span), "\r\n") {
		width := max(runewidth.StringWidth(edit.NewText), 1)
		if p.kind == editDelete {
			width = 1
		}
		p.marker = padFor(head) + "^" + strings.Repeat("~", width-1)
	}
	return p, nil
}

// lineBlock расширяет [start, end) до целых строк, включая терминатор последней.
func lineBlock(f *source.File, start, end int) (int, int) {
	content := f.Content
	for start > 0 && content[start-1] != '\n' && content[start-1] != '\r' {
		start--
	}
	for end < len(content) && content[end] != '\n' && content[end] != '\r' {
		end++
	}
	switch {
	case end+1 < len(content) && content[end] == '\r' && content[end+1] == '\n':
		end += 2
	case end < len(content):
		end++
	}
	return start, end
}

// previewLines режет текст на строки; завершающий перевод строки не даёт
// пустой последней строки.
func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimRight(text, "\r\n")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "\r", "")
	}
	return lines
}
