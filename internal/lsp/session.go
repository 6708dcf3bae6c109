package lsp

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"vela/internal/check"
	"vela/internal/trace"
)

// DefaultDebounce is the delay between the last edit and the next run.
const DefaultDebounce = 200 * time.Millisecond

// SessionOptions configure a Session.
type SessionOptions struct {
	Debounce time.Duration
	Check    check.Options
	// Analyze defaults to the package-level Analyze.
	Analyze AnalyzeFunc
	// OnPublish is called after a snapshot becomes current, in publish
	// order. It must not call back into DidOpen, DidChange or DidClose.
	OnPublish func(*Snapshot)
}

// Session keeps open documents and republishes analysis after edits.
//
// Every edit bumps the sequence number, cancels the running analysis and
// restarts the debounce timer. A run analyzes a copy of the documents on
// fresh engines and publishes only if no edit happened meanwhile.
type Session struct {
	id        string
	debounce  time.Duration
	checkOpts check.Options
	analyze   AnalyzeFunc
	onPublish func(*Snapshot)
	baseCtx   context.Context

	mu       sync.RWMutex
	docs     map[string]Document
	seq      uint64
	cancel   context.CancelFunc
	timer    *time.Timer
	snapshot *Snapshot
	closed   bool

	// pubMu orders publish callbacks
	pubMu sync.Mutex
	wg    sync.WaitGroup
}

// NewSession starts a session whose runs derive from ctx.
func NewSession(ctx context.Context, opts SessionOptions) *Session {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	analyze := opts.Analyze
	if analyze == nil {
		analyze = Analyze
	}
	return &Session{
		id:        uuid.NewString(),
		debounce:  debounce,
		checkOpts: opts.Check,
		analyze:   analyze,
		onPublish: opts.OnPublish,
		baseCtx:   ctx,
		docs:      make(map[string]Document),
	}
}

// ID identifies the session in trace output.
func (s *Session) ID() string { return s.id }

func (s *Session) DidOpen(uri string, version int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = Document{URI: uri, Version: version, Text: text}
	s.scheduleLocked()
}

// DidChange replaces the full text of uri.
func (s *Session) DidChange(uri string, version int, text string) {
	s.DidOpen(uri, version, text)
}

func (s *Session) DidClose(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; !ok {
		return
	}
	delete(s.docs, uri)
	s.scheduleLocked()
}

// Document returns the current buffer, which may be newer than the snapshot.
func (s *Session) Document(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[uri]
	return d, ok
}

// Snapshot returns the last published snapshot, or nil.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Diagnostics returns the published diagnostics of uri.
func (s *Session) Diagnostics(uri string) []Diagnostic {
	return s.Snapshot().Diagnostics(uri)
}

// CodeActions returns the actions for the declaration around the byte
// offset of uri in the published snapshot, as LSP edits.
func (s *Session) CodeActions(uri string, offset uint32) []CodeAction {
	snap := s.Snapshot()
	file, ok := snap.File(uri)
	if !ok {
		return nil
	}
	actions := snap.Actions(uri, offset)
	out := make([]CodeAction, 0, len(actions))
	for _, a := range actions {
		pos := positionForOffsetInFile(file, a.Edit.Offset())
		out = append(out, CodeAction{
			Title: a.Title,
			Kind:  "refactor.rewrite",
			Edit: &WorkspaceEdit{Changes: map[string][]TextEdit{
				uri: {{Range: Range{Start: pos, End: pos}, NewText: a.Edit.Text}},
			}},
		})
	}
	return out
}

// Wait blocks until every scheduled run has finished.
func (s *Session) Wait() { s.wg.Wait() }

// Close cancels pending work and waits for it.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) scheduleLocked() {
	if s.closed {
		return
	}
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.wg.Done()
		s.run(seq)
	})
}

func (s *Session) run(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	docs := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeSession, "session.run", 0).
		WithExtra("session", s.id).
		WithExtra("seq", strconv.FormatUint(seq, 10))

	snap, err := s.analyze(trace.WithParent(ctx, span.ID()), docs, s.checkOpts)
	if err != nil {
		span.End("failed: " + err.Error())
		return
	}
	snap.Seq = seq
	snap.Versions = make(map[string]int, len(docs))
	for _, d := range docs {
		snap.Versions[d.URI] = d.Version
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if !s.publish(snap) {
		span.End("discarded")
		return
	}
	span.End("published")
	if s.onPublish != nil {
		s.onPublish(snap)
	}
}

// publish installs snap if its run is still the latest and every version
// it read is still current.
func (s *Session) publish(snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || snap.Seq != s.seq || len(snap.Versions) != len(s.docs) {
		return false
	}
	for uri, v := range snap.Versions {
		if d, ok := s.docs[uri]; !ok || d.Version != v {
			return false
		}
	}
	s.snapshot = snap
	return true
}
