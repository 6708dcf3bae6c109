// Package version holds build metadata for the vela CLI. The variables can
// be overridden at build time via -ldflags "-X vela/internal/version.Version=...".
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version, plain text.
	Version = "0.1.0-dev"
	// GitCommit is an optional git commit hash.
	GitCommit = ""
	// BuildDate is an optional ISO-8601 build date.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Plain returns Version without decoration.
func Plain() string { return strings.TrimSpace(Version) }

// Colored renders major, minor and patch in distinct colors. The color
// package drops the escapes when output is not a terminal.
func Colored() string {
	v := Plain()
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the text of `vela version`.
func Banner() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "vela %s\n", Colored())
	if c := strings.TrimSpace(GitCommit); c != "" {
		fmt.Fprintf(&sb, "commit: %s\n", c)
	}
	if d := strings.TrimSpace(BuildDate); d != "" {
		fmt.Fprintf(&sb, "built:  %s\n", d)
	}
	return sb.String()
}
