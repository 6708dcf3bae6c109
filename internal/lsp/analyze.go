package lsp

import (
	"context"
	"sort"
	"sync"

	"vela/internal/check"
	"vela/internal/codeaction"
	"vela/internal/diag"
	"vela/internal/driver"
	"vela/internal/engines"
	"vela/internal/source"
)

// Document is an open editor buffer.
type Document struct {
	URI     string
	Version int
	Text    string
}

// Snapshot is the read-only outcome of one analysis run.
type Snapshot struct {
	Seq uint64
	// Versions are the document versions the run read.
	Versions map[string]int
	Result   *check.Result

	files map[string]source.FileID
	diags map[string][]Diagnostic
	// mu serializes queries: type lookups compress union-find paths.
	mu sync.Mutex
}

// AnalyzeFunc checks docs on private engines.
type AnalyzeFunc func(ctx context.Context, docs []Document, opts check.Options) (*Snapshot, error)

// Analyze parses docs into a fresh FileSet and runs the check pipeline.
func Analyze(ctx context.Context, docs []Document, opts check.Options) (*Snapshot, error) {
	fs := source.NewFileSet()
	snap := &Snapshot{
		Versions: make(map[string]int, len(docs)),
		files:    make(map[string]source.FileID, len(docs)),
		diags:    make(map[string][]Diagnostic, len(docs)),
	}
	ids := make([]source.FileID, 0, len(docs))
	for _, d := range docs {
		id := fs.AddVirtual(documentPath(d.URI), []byte(d.Text))
		ids = append(ids, id)
		snap.files[d.URI] = id
		snap.Versions[d.URI] = d.Version
	}
	files, syntax, err := driver.ParseFiles(ctx, fs, ids, 0)
	if err != nil {
		return nil, err
	}
	res, err := check.Run(ctx, engines.New(fs), files, syntax, opts)
	if err != nil {
		return nil, err
	}
	snap.Result = res

	uriOf := make(map[source.FileID]string, len(docs))
	for uri, id := range snap.files {
		uriOf[id] = uri
	}
	for uri := range snap.files {
		snap.diags[uri] = []Diagnostic{}
	}
	for _, d := range res.Diagnostics {
		uri, ok := uriOf[d.Primary.File]
		if !ok {
			continue
		}
		snap.diags[uri] = append(snap.diags[uri], toLSP(fs, uriOf, d))
	}
	return snap, nil
}

func toLSP(fs *source.FileSet, uriOf map[source.FileID]string, d diag.Diagnostic) Diagnostic {
	file := fs.Get(d.Primary.File)
	out := Diagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: d.Severity.LSP(),
		Code:     d.Code.ID(),
		Source:   "vela",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		uri, ok := uriOf[n.Span.File]
		if !ok {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, DiagnosticRelatedInformation{
			Location: Location{URI: uri, Range: rangeForSpan(fs.Get(n.Span.File), n.Span)},
			Message:  n.Msg,
		})
	}
	return out
}

// URIs lists the analyzed documents.
func (s *Snapshot) URIs() []string {
	out := make([]string, 0, len(s.files))
	for uri := range s.files {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}

// Diagnostics returns the diagnostics whose primary span lies in uri.
func (s *Snapshot) Diagnostics(uri string) []Diagnostic {
	if s == nil {
		return nil
	}
	return s.diags[uri]
}

// File returns the analyzed text of uri.
func (s *Snapshot) File(uri string) (*source.File, bool) {
	if s == nil || s.Result == nil {
		return nil, false
	}
	id, ok := s.files[uri]
	if !ok {
		return nil, false
	}
	return s.Result.Engines.Files.Get(id), true
}

// Actions computes the code actions for the declaration around offset.
func (s *Snapshot) Actions(uri string, offset uint32) []codeaction.Action {
	if s == nil || s.Result == nil {
		return nil
	}
	id, ok := s.files[uri]
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	eng := s.Result.Engines
	ref, ok := codeaction.At(eng, id, offset)
	if !ok {
		return nil
	}
	return codeaction.ForDecl(eng, ref)
}
