package diagfmt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"vela/internal/diag"
)

// UnableToTypeCheck is the headline printed when a check run fails.
const UnableToTypeCheck = "unable to type check"

var (
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

// SummaryLine describes the error and warning counts of a run.
func SummaryLine(errs, warns int) string {
	switch {
	case errs > 0:
		return fmt.Sprintf("%s: %s, %s", UnableToTypeCheck, plural(errs, "error"), plural(warns, "warning"))
	case warns > 0:
		return fmt.Sprintf("checked with %s", plural(warns, "warning"))
	}
	return "ok"
}

// Summary writes SummaryLine for the bag, styled when color is set.
func Summary(w io.Writer, bag *diag.Bag, useColor bool) {
	var errs, warns int
	if bag != nil {
		for _, d := range bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	line := SummaryLine(errs, warns)
	if useColor {
		style := okStyle
		switch {
		case errs > 0:
			style = failStyle
		case warns > 0:
			style = warnStyle
		}
		line = style.Render(line)
	}
	fmt.Fprintln(w, line)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
