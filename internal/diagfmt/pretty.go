package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vela/internal/diag"
	"vela/internal/source"
)

type palette struct {
	err, warn, info, bold, gutter, note, help *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		bold:   mk(color.Bold),
		gutter: mk(color.FgBlue, color.Bold),
		note:   mk(color.FgCyan),
		help:   mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

func severityLabel(s diag.Severity) string {
	return strings.ToLower(s.String())
}

// Pretty renders the bag as annotated source snippets:
//
//	error[SEM3015]: mismatched types
//	  --> src/main.vl:3:9
//	   |
//	 3 |     let x: bool = 1;
//	   |                   ^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	if opts.Terse {
		short(w, bag.Items(), fs, opts, true)
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, d, fs, opts)
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := p.severity(d.Severity)
	fmt.Fprintf(w, "%s%s\n", sev.Sprintf("%s[%s]", severityLabel(d.Severity), d.Code.ID()), p.bold.Sprintf(": %s", d.Message))

	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first { // #nosec G115 -- context is a small flag value
		first -= uint32(opts.Context) // #nosec G115
	} else if opts.Context > 0 {
		first = 1
	}
	last := start.Line + uint32(max(opts.Context, 0)) // #nosec G115
	if maxLine := uint32(len(f.LineIdx) + 1); last > maxLine { // #nosec G115 -- bounded by file size
		last = maxLine
	}
	width := len(strconv.FormatUint(uint64(last), 10))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), formatPath(fs, f, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))
	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		num := fmt.Sprintf("%*d", width, line)
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)
		if line != start.Line {
			continue
		}
		lead := runewidth.StringWidth(prefixCols(text, start.Col))
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			n = runewidth.StringWidth(sliceCols(text, start.Col, end.Col))
		} else if end.Line > start.Line {
			n = max(runewidth.StringWidth(text)-lead, 1)
		}
		fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", lead), sev.Sprint(strings.Repeat("^", max(n, 1))))
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			loc := ""
			if fs.HasFile(n.Span.File) && (n.Span != source.Span{}) {
				path, lc := location(fs, n.Span, opts.PathMode)
				loc = fmt.Sprintf(" (%s:%d:%d)", path, lc.Line, lc.Col)
			}
			fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("="), p.note.Sprintf("note: %s", n.Msg), loc)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "%s %s %s\n", pad, p.gutter.Sprint("="), p.help.Sprintf("help: %s", fx.Title))
		}
	}
}

// prefixCols returns the bytes before the 1-based byte column col.
func prefixCols(line string, col uint32) string {
	if col <= 1 {
		return ""
	}
	if int(col-1) > len(line) {
		return line
	}
	return line[:col-1]
}

func sliceCols(line string, from, to uint32) string {
	a := len(prefixCols(line, from))
	b := len(prefixCols(line, to))
	return line[a:b]
}
