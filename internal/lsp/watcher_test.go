package lsp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFeedsSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vl")
	if err := os.WriteFile(path, []byte(goodSource), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	published := make(chan *Snapshot, 16)
	s := NewSession(context.Background(), SessionOptions{
		Debounce:  5 * time.Millisecond,
		OnPublish: func(snap *Snapshot) { published <- snap },
	})
	defer s.Close()
	w, err := NewWatcher(s, dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	uri := pathToURI(path)
	next := func() *Snapshot {
		select {
		case snap := <-published:
			return snap
		case <-time.After(5 * time.Second):
			t.Fatalf("no publish")
		}
		return nil
	}
	if snap := next(); len(snap.Diagnostics(uri)) != 0 {
		t.Fatalf("initial load should be clean")
	}
	if err := os.WriteFile(path, []byte(badSource), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	for {
		snap := next()
		if len(snap.Diagnostics(uri)) == 1 {
			break
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
