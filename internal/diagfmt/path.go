package diagfmt

import (
	"strings"

	"vela/internal/source"
)

// autoPathLimit is the length above which PathModeAuto prints a basename.
const autoPathLimit = 40

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	if strings.HasPrefix(f.Path, "/") && len(f.Path) > autoPathLimit {
		return f.FormatPath("basename", "")
	}
	return f.Path
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) (string, source.LineCol) {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return formatPath(fs, f, mode), start
}
