package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadFindsManifestAbove(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
name = "counter"

[build]
target = "evm"
disable-tests = true

[dependencies]
std = { git = "https://example.com/std", version = "0.1" }

[extra]
color = "blue"
`)
	writeFile(t, filepath.Join(root, "src", "main.vl"), "fn main() {}\n")
	writeFile(t, filepath.Join(root, "src", "lib", "math.vl"), "fn add() {}\n")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "skip")

	m, err := Load(filepath.Join(root, "src", "lib"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Project.Name != "counter" || m.Project.Entry != "src" || !m.Build.DisableTests || m.Build.Target != "evm" {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if !slices.Contains(m.Undecoded, "extra.color") {
		t.Fatalf("undecoded keys = %v", m.Undecoded)
	}
	srcs, err := m.Sources()
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(srcs) != 2 || !strings.HasSuffix(srcs[0], filepath.Join("lib", "math.vl")) {
		t.Fatalf("sources = %v", srcs)
	}
}

func TestMissingManifest(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestManifestValidation(t *testing.T) {
	cases := map[string]string{
		"missing [project].name": "[project]\nentry = \"src\"\n",
		"escapes project root":   "[project]\nname = \"x\"\nentry = \"../elsewhere\"\n",
		"needs `path` or `git`":  "[project]\nname = \"x\"\n[dependencies]\nstd = { version = \"1\" }\n",
	}
	for want, content := range cases {
		dir := t.TempDir()
		path := filepath.Join(dir, ManifestName)
		writeFile(t, path, content)
		_, err := LoadManifest(path)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q, got %v", want, err)
		}
	}
}

func TestCombineOrderMatters(t *testing.T) {
	a, b := HashString("a"), HashString("b")
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("combine must be deterministic")
	}
}
