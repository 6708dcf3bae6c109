package diagfmt

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shortens long absolute paths to their basename.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

// Format selects a renderer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return FormatPretty, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatPretty, fmt.Errorf("invalid format %q (expected pretty|short|json)", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is the number of source lines shown around the primary line.
	Context   int
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
	// Terse renders only errors, one line each.
	Terse bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	// Max truncates the output, not the bag; 0 means everything.
	Max          int
	IncludeNotes bool
	IncludeFixes bool
}

// ColorAuto reports whether f is a terminal and NO_COLOR is unset.
func ColorAuto(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
