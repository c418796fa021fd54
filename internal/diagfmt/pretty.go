package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bsharp/internal/diag"
	"bsharp/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
	fix             *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix} {
		// цвет решает --color, а не глобальный color.NoColor
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, список expected,
// затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, fs, opts.PathMode), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	if f != nil {
		writeSnippet(w, f, d.Primary, int(opts.Context), pal)
	}
	if len(d.Expected) > 0 {
		quoted := make([]string, len(d.Expected))
		for i, e := range d.Expected {
			quoted[i] = "'" + e + "'"
		}
		fmt.Fprintf(w, "  = expected: %s\n", strings.Join(quoted, ", "))
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprintf("fix #%d:", i+1), fix.Title)
			for _, edit := range fix.Edits {
				ef := fs.Get(edit.Span.File)
				from, to := fs.Resolve(edit.Span)
				fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n",
					formatPath(ef, fs, opts.PathMode), from.Line, from.Col, to.Line, to.Col, edit.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixPreview(fs, edit)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "    preview (%s):\n", preview.kind)
				for _, l := range preview.before {
					fmt.Fprintf(w, "      - %s\n", l)
				}
				for i, l := range preview.after {
					fmt.Fprintf(w, "      + %s\n", l)
					if i == 0 && preview.marker != "" {
						fmt.Fprintf(w, "        %s\n", pal.caret.Sprint(preview.marker))
					}
				}
			}
		}
	}
}

// writeSnippet печатает строку span'а (и context строк перед ней) с
// подчёркиванием. Ширина считается по runewidth, табы сохраняются.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, context int, pal palette) {
	start := f.Position(sp.Start)
	end := f.Position(sp.End)

	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= int(start.Line); ln++ {
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", width, ln), f.GetLine(uint32(ln)))
	}

	line := f.GetLine(start.Line)
	col := byteOffsetOfColumn(line, start.Col)
	prefix := line[:col]

	// подчёркиваем только первую строку многострочного span'а
	stop := len(line)
	if end.Line == start.Line {
		stop = byteOffsetOfColumn(line, end.Col)
	}
	stop = max(stop, col)
	marked := line[col:stop]

	underline := "^" + strings.Repeat("~", max(runewidth.StringWidth(marked), 1)-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), padFor(prefix), pal.caret.Sprint(underline))
}

// byteOffsetOfColumn переводит 1-based колонку в рунах в смещение внутри line.
func byteOffsetOfColumn(line string, col uint32) int {
	n := uint32(1)
	for i := range line {
		if n >= col {
			return i
		}
		n++
	}
	return len(line)
}

// padFor: отступ под prefix на экране; табы сохраняются, широкие руны дают два пробела.
func padFor(prefix string) string {
	var pad strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return pad.String()
}
