package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestBannerWithoutColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3-rc.1", "abc123", ""
	got := Banner()
	if got != "vela 1.2.3-rc.1\ncommit: abc123\n" {
		t.Fatalf("banner = %q", got)
	}
}

func TestColoredKeepsUnusualVersions(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()
	Version = " nightly "
	if got := Colored(); got != "nightly" {
		t.Fatalf("colored = %q", got)
	}
}

func TestColoredWrapsParts(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()
	origVersion := Version
	defer func() { Version = origVersion }()
	Version = "0.1.0"
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "0") {
		t.Fatalf("expected escapes in %q", got)
	}
}
