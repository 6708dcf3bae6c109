package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vela/internal/diag"
	"vela/internal/source"
)

func sample() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.vl", []byte("fn main() {\n    let x: bool = 10;\n    let y = 1;\n}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{File: id, Start: 30, End: 32}, "expected bool, found u64").
		WithNote(source.Span{File: id, Start: 23, End: 27}, "declared here").
		WithFix("change the annotation", diag.FixEdit{Span: source.Span{File: id, Start: 23, End: 27}, NewText: "u64"}))
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnusedVariable, source.Span{File: id, Start: 42, End: 43}, "unused variable `y`"))
	return bag, fs
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})
	out := buf.String()
	for _, want := range []string{
		"error[SEM3015]: expected bool, found u64",
		"--> main.vl:2:19",
		"2 |     let x: bool = 10;",
		" |" + strings.Repeat(" ", 19) + "^^\n",
		"= note: declared here (main.vl:2:12)",
		"= help: change the annotation",
		"warning[SEM3100]: unused variable `y`",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color codes emitted with Color=false")
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	if !strings.Contains(out, "1 | fn main() {") || !strings.Contains(out, "3 |     let y = 1;") {
		t.Fatalf("context lines missing:\n%s", out)
	}
}

func TestTerseShowsOnlyErrors(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Terse: true})
	out := buf.String()
	if out != "main.vl:2:19: error[SEM3015]: expected bool, found u64\n" {
		t.Fatalf("terse output = %q", out)
	}
}

func TestShortListsEverything(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Short(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "main.vl:3:9: warning[SEM3100]") {
		t.Fatalf("short output = %q", lines)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SEM3015" || first.Severity != "ERROR" || first.Location.StartLine != 2 || first.Location.StartCol != 19 {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if len(first.Notes) != 1 || len(first.Fixes) != 1 || first.Fixes[0].Edits[0].NewText != "u64" {
		t.Fatalf("notes/fixes not rendered: %+v", first)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs := sample()
	out := BuildJSON(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("max/positions not honored: %+v", out)
	}
}

func TestSummary(t *testing.T) {
	bag, _ := sample()
	var buf bytes.Buffer
	Summary(&buf, bag, false)
	if got := buf.String(); got != "unable to type check: 1 error, 1 warning\n" {
		t.Fatalf("summary = %q", got)
	}
	if got := SummaryLine(0, 2); got != "checked with 2 warnings" {
		t.Fatalf("warnings only = %q", got)
	}
	if got := SummaryLine(0, 0); got != "ok" {
		t.Fatalf("clean = %q", got)
	}
}

func TestParseOptions(t *testing.T) {
	if m, err := ParsePathMode("Basename"); err != nil || m != PathModeBasename {
		t.Fatalf("path mode = %v, %v", m, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
