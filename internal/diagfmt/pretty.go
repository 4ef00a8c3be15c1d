package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tsluau/internal/diag"
	"tsluau/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.note} {
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

// Pretty writes bag.Items() in order (callers sort beforehand):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  12 | foo.bar()
//	     | ^~~~~~~
//
// followed by notes in the same shape when ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sevColor := p.severity(d.Severity)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode),
			sevColor.Sprint(strings.ToUpper(d.Severity.String())),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, sevColor, p.gutter)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
			writeSnippet(w, fs, n.Span, 0, p.note, p.gutter)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), fs, mode), start.Line, start.Col)
}

// writeSnippet prints the lines around sp with a ^~~~ underline on the
// first line of the span. Column widths account for wide runes.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int8, mark, gutter *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	first := int64(start.Line) - int64(context)
	if first < 1 {
		first = 1
	}
	last := int64(start.Line) + int64(context)
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln))
		if ln > int64(start.Line) && text == "" {
			break
		}
		fmt.Fprintf(w, " %s %s\n", gutter.Sprintf("%*d |", width, ln), expandTabs(text))
		if ln != int64(start.Line) {
			continue
		}
		pad, span := underline(text, start, end)
		fmt.Fprintf(w, " %s %s%s\n",
			gutter.Sprintf("%*s |", width, ""),
			strings.Repeat(" ", pad),
			mark.Sprint("^"+strings.Repeat("~", span-1)))
	}
}

// underline returns the display offset and width of the marked part of the
// line. Spans continuing past the line are cut at its end.
func underline(text string, start, end source.LineCol) (pad, width int) {
	startIdx := clamp(int(start.Col)-1, 0, len(text))
	endIdx := len(text)
	if end.Line == start.Line {
		endIdx = clamp(int(end.Col)-1, startIdx, len(text))
	}
	pad = runewidth.StringWidth(expandTabs(text[:startIdx]))
	width = runewidth.StringWidth(expandTabs(text[startIdx:endIdx]))
	if width < 1 {
		width = 1
	}
	return pad, width
}

func expandTabs(s string) string { return strings.ReplaceAll(s, "\t", "    ") }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
