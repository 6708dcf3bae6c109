package lsp

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"vela/internal/check"
)

const (
	goodSource = "struct Point { x: u64, y: u64 }\n\nfn main() -> u64 { 1 }\n"
	badSource  = "struct Point { x: u64, y: u64 }\n\nfn main() -> u64 { true }\n"
	testURI    = "file:///work/src/main.vl"
)

type recorder struct {
	mu    sync.Mutex
	snaps []*Snapshot
}

func (r *recorder) publish(s *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []*Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Snapshot(nil), r.snaps...)
}

func TestStaleRunIsNeverPublished(t *testing.T) {
	started := make(chan int, 4)
	release := make(chan struct{})
	analyze := func(ctx context.Context, docs []Document, opts check.Options) (*Snapshot, error) {
		v := docs[0].Version
		started <- v
		if v == 1 {
			<-release
			// finish late, as if cancellation came too late to stop the run
			return Analyze(context.Background(), docs, opts)
		}
		return Analyze(ctx, docs, opts)
	}
	rec := &recorder{}
	s := NewSession(context.Background(), SessionOptions{
		Debounce:  time.Millisecond,
		Analyze:   analyze,
		OnPublish: rec.publish,
	})
	defer s.Close()

	s.DidOpen(testURI, 1, goodSource)
	if v := <-started; v != 1 {
		t.Fatalf("first run read version %d", v)
	}
	s.DidChange(testURI, 2, badSource)
	close(release)
	s.Wait()

	snaps := rec.all()
	if len(snaps) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(snaps))
	}
	if snaps[0].Versions[testURI] != 2 {
		t.Fatalf("published version %d, want 2", snaps[0].Versions[testURI])
	}
	if got := s.Snapshot(); got != snaps[0] {
		t.Fatalf("session snapshot is not the published one")
	}
	diags := s.Diagnostics(testURI)
	if len(diags) != 1 || diags[0].Code != "SEM3015" || diags[0].Severity != 1 {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
	if diags[0].Range.Start.Line != 2 {
		t.Fatalf("diagnostic on line %d, want 2", diags[0].Range.Start.Line)
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	analyze := func(ctx context.Context, docs []Document, opts check.Options) (*Snapshot, error) {
		mu.Lock()
		runs++
		mu.Unlock()
		return Analyze(ctx, docs, opts)
	}
	rec := &recorder{}
	s := NewSession(context.Background(), SessionOptions{
		Debounce:  50 * time.Millisecond,
		Analyze:   analyze,
		OnPublish: rec.publish,
	})
	defer s.Close()
	for v := 1; v <= 5; v++ {
		s.DidChange(testURI, v, goodSource)
	}
	s.Wait()
	mu.Lock()
	defer mu.Unlock()
	if runs != 1 {
		t.Fatalf("expected one run after a burst, got %d", runs)
	}
	if snaps := rec.all(); len(snaps) != 1 || snaps[0].Versions[testURI] != 5 {
		t.Fatalf("expected one publish of version 5")
	}
}

func TestCodeActionsFromSnapshot(t *testing.T) {
	s := NewSession(context.Background(), SessionOptions{Debounce: time.Millisecond})
	defer s.Close()
	s.DidOpen(testURI, 1, goodSource)
	s.Wait()

	if d := s.Diagnostics(testURI); len(d) != 0 {
		t.Fatalf("expected clean document, got %+v", d)
	}
	off := uint32(strings.Index(goodSource, "Point")) // #nosec G115 -- small test input
	actions := s.CodeActions(testURI, off)
	if len(actions) != 3 {
		t.Fatalf("expected 3 struct actions, got %d", len(actions))
	}
	for _, a := range actions {
		edits := a.Edit.Changes[testURI]
		if len(edits) != 1 || edits[0].NewText == "" {
			t.Fatalf("action %q has no edit", a.Title)
		}
	}
	if got := s.CodeActions("file:///elsewhere.vl", 0); len(got) != 0 {
		t.Fatalf("unknown document must have no actions")
	}
}

func TestCloseClearsDocument(t *testing.T) {
	rec := &recorder{}
	s := NewSession(context.Background(), SessionOptions{Debounce: time.Millisecond, OnPublish: rec.publish})
	defer s.Close()
	s.DidOpen(testURI, 1, badSource)
	s.Wait()
	s.DidClose(testURI)
	s.Wait()
	snaps := rec.all()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(snaps))
	}
	if uris := snaps[1].URIs(); len(uris) != 0 {
		t.Fatalf("closed document still analyzed: %v", uris)
	}
	if d := s.Diagnostics(testURI); len(d) != 0 {
		t.Fatalf("closed document still has diagnostics")
	}
}

func TestCancelledRunIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	s := NewSession(ctx, SessionOptions{Debounce: time.Millisecond, OnPublish: rec.publish})
	cancel()
	s.DidOpen(testURI, 1, goodSource)
	s.Wait()
	if len(rec.all()) != 0 || s.Snapshot() != nil {
		t.Fatalf("run under a cancelled context must not publish")
	}
	if s.ID() == "" {
		t.Fatalf("session id missing")
	}
	s.Close()
}
