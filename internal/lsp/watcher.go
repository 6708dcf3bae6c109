package lsp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"vela/internal/project"
)

// Watcher feeds .vl files under a directory into a Session as if they
// were open documents edited on every write.
type Watcher struct {
	session  *Session
	root     string
	fsw      *fsnotify.Watcher
	versions map[string]int
	// Errors receives watcher errors that do not stop Run; nil drops them.
	Errors func(error)
}

func NewWatcher(session *Session, root string) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		session:  session,
		root:     abs,
		fsw:      fsw,
		versions: make(map[string]int),
	}, nil
}

// Run opens every existing source, then forwards changes until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		if strings.HasSuffix(path, project.SourceExt) {
			w.load(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.report(err)
			}
			return
		}
	}
	if !strings.HasSuffix(ev.Name, project.SourceExt) {
		return
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		uri := pathToURI(ev.Name)
		delete(w.versions, uri)
		w.session.DidClose(uri)
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		w.load(ev.Name)
	}
}

func (w *Watcher) load(path string) {
	// #nosec G304 -- path comes from walking the watched root
	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.report(err)
		}
		return
	}
	uri := pathToURI(path)
	w.versions[uri]++
	w.session.DidChange(uri, w.versions[uri], string(content))
}

func (w *Watcher) report(err error) {
	if w.Errors != nil {
		w.Errors(err)
	}
}
