package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceExt is the extension of vela source files.
const SourceExt = ".vl"

// Manifest is the decoded vela.toml.
type Manifest struct {
	Project      ProjectSection        `toml:"project"`
	Build        BuildSection          `toml:"build"`
	Dependencies map[string]Dependency `toml:"dependencies"`

	// Path and Root are filled by LoadManifest.
	Path string `toml:"-"`
	Root string `toml:"-"`
	// Undecoded lists keys the manifest sets but vela does not know.
	Undecoded []string `toml:"-"`
}

type ProjectSection struct {
	Name string `toml:"name"`
	// Entry is a source file or directory relative to Root. Default "src".
	Entry string `toml:"entry"`
}

type BuildSection struct {
	Target       string `toml:"target"`
	DisableTests bool   `toml:"disable-tests"`
}

// Dependency entries are validated and forwarded; the checker never reads them.
type Dependency struct {
	Path    string `toml:"path"`
	Git     string `toml:"git"`
	Version string `toml:"version"`
}

// LoadManifest parses and validates the vela.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	for _, key := range meta.Undecoded() {
		m.Undecoded = append(m.Undecoded, key.String())
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Load finds the manifest above startDir and loads it.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadManifest(path)
}

func (m *Manifest) validate() error {
	m.Project.Name = strings.TrimSpace(m.Project.Name)
	if m.Project.Name == "" {
		return fmt.Errorf("missing [project].name")
	}
	if m.Project.Entry == "" {
		m.Project.Entry = "src"
	}
	if filepath.IsAbs(m.Project.Entry) {
		return fmt.Errorf("invalid [project].entry %q: must be relative", m.Project.Entry)
	}
	if !pathWithin(m.Root, filepath.Join(m.Root, filepath.FromSlash(m.Project.Entry))) {
		return fmt.Errorf("invalid [project].entry %q: escapes project root", m.Project.Entry)
	}
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dep := m.Dependencies[name]
		if dep.Path == "" && dep.Git == "" {
			return fmt.Errorf("dependency %q needs `path` or `git`", name)
		}
		if dep.Path != "" && dep.Git != "" {
			return fmt.Errorf("dependency %q sets both `path` and `git`", name)
		}
	}
	return nil
}

// Sources lists the project's .vl files in a stable order.
func (m *Manifest) Sources() ([]string, error) {
	entry := filepath.Join(m.Root, filepath.FromSlash(m.Project.Entry))
	info, err := os.Stat(entry)
	if err != nil {
		return nil, fmt.Errorf("invalid [project].entry %q: %w", m.Project.Entry, err)
	}
	if !info.IsDir() {
		return []string{entry}, nil
	}
	return ListSources(entry)
}

// ListSources returns every .vl file below dir, sorted.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
