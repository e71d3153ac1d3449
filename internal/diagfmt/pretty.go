package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mbaalint/internal/diag"
	"mbaalint/internal/line"
	"mbaalint/internal/source"
)

type palette struct {
	err, warn, info, note, code, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgCyan),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
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
// затем строку исходника с подчёркиванием ^^^ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		line, col := d.Primary.Start.OneBased()
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), line, col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if opts.ShowSource {
			writeSnippet(w, fs, d.Primary, p)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nl, nc := n.Span.Start.OneBased()
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
					p.note.Sprint("note:"),
					formatPath(fs, n.Span.File, opts.PathMode), nl, nc,
					n.Msg,
				)
			}
		}
	}
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, p palette) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	idx := int(sp.Start.Line)
	if idx >= f.LineCount() {
		return
	}
	text := strings.ReplaceAll(f.Line(idx), "\t", " ")
	num := strconv.Itoa(idx + 1)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)

	prefix := prefixUTF16(text, int(sp.Start.Col))
	width := 1
	if n := int(sp.Len()); n > 0 {
		marked := prefixUTF16(text[len(prefix):], n)
		width = max(1, runewidth.StringWidth(marked))
		// Пролёт за конец строки (диапазон ссылки фиксированной ширины).
		if extra := n - line.Width(marked); extra > 0 {
			width += extra
		}
	}
	fmt.Fprintf(w, " %s %s %s%s\n",
		pad,
		p.gutter.Sprint("|"),
		strings.Repeat(" ", runewidth.StringWidth(prefix)),
		p.caret.Sprint(strings.Repeat("^", width)),
	)
}

// prefixUTF16 returns the longest prefix of s spanning at most n UTF-16 units.
func prefixUTF16(s string, n int) string {
	units := 0
	for i, r := range s {
		u := 1
		if r > 0xFFFF {
			u = 2
		}
		if units+u > n {
			return s[:i]
		}
		units += u
	}
	return s
}
