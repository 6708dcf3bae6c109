package diagfmt

import (
	"fmt"
	"io"

	"vela/internal/diag"
	"vela/internal/source"
)

// Short renders one line per diagnostic: path:line:col: severity[CODE]: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	short(w, bag.Items(), fs, opts, opts.Terse)
}

func short(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, errorsOnly bool) {
	p := newPalette(opts.Color)
	for _, d := range items {
		if errorsOnly && d.Severity != diag.SevError {
			continue
		}
		path, lc := location(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, lc.Line, lc.Col,
			p.severity(d.Severity).Sprintf("%s[%s]", severityLabel(d.Severity), d.Code.ID()), d.Message)
	}
}
