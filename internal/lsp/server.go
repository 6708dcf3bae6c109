package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"vela/internal/check"
	"vela/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configure the stdio server.
type ServerOptions struct {
	Debounce time.Duration
	Check    check.Options
	Analyze  AnalyzeFunc
	// Log receives server messages; nil means stderr.
	Log io.Writer
}

// Server speaks JSON-RPC over a reader/writer pair.
type Server struct {
	in      *bufio.Reader
	out     *bufio.Writer
	opts    ServerOptions
	log     io.Writer
	sendMu  sync.Mutex
	session *Session

	mu                sync.Mutex
	published         map[string]struct{}
	shutdownRequested bool
}

func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	log := opts.Log
	if log == nil {
		log = os.Stderr
	}
	return &Server{
		in:        bufio.NewReader(in),
		out:       bufio.NewWriter(out),
		opts:      opts,
		log:       log,
		published: make(map[string]struct{}),
	}
}

// Session is nil until Run starts.
func (s *Server) Session() *Session { return s.session }

// Run serves requests until the input ends or the client exits.
func (s *Server) Run(ctx context.Context) error {
	s.session = NewSession(ctx, SessionOptions{
		Debounce:  s.opts.Debounce,
		Check:     s.opts.Check,
		Analyze:   s.opts.Analyze,
		OnPublish: s.publishSnapshot,
	})
	defer s.session.Close()
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.sendResponse(msg.ID, initializeResult{
			Capabilities: serverCapabilities{
				TextDocumentSync:   textDocumentSyncOptions{OpenClose: true, Change: 2},
				CodeActionProvider: true,
			},
			ServerInfo: serverInfo{Name: "vela", Version: version.Plain()},
		})
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()
		return s.sendResponse(msg.ID, nil)
	case "exit":
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		var params didOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return fmt.Errorf("didOpen: %w", err)
		}
		doc := params.TextDocument
		s.session.DidOpen(canonicalURI(doc.URI), doc.Version, doc.Text)
		return nil
	case "textDocument/didChange":
		var params didChangeTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return fmt.Errorf("didChange: %w", err)
		}
		uri := canonicalURI(params.TextDocument.URI)
		cur, _ := s.session.Document(uri)
		s.session.DidChange(uri, params.TextDocument.Version, applyChanges(cur.Text, params.ContentChanges))
		return nil
	case "textDocument/didClose":
		var params didCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return fmt.Errorf("didClose: %w", err)
		}
		s.session.DidClose(canonicalURI(params.TextDocument.URI))
		return nil
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, errMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, errInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	actions := []CodeAction{}
	if file, ok := s.session.Snapshot().File(uri); ok {
		off := offsetForPositionInFile(file, params.Range.Start)
		actions = append(actions, s.session.CodeActions(uri, off)...)
	}
	return s.sendResponse(msg.ID, actions)
}

// publishSnapshot sends diagnostics for every analyzed document and clears
// documents that were published before but are gone now.
func (s *Server) publishSnapshot(snap *Snapshot) {
	uris := snap.URIs()
	s.mu.Lock()
	prev := s.published
	s.published = make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		s.published[uri] = struct{}{}
		delete(prev, uri)
	}
	s.mu.Unlock()

	for _, uri := range uris {
		v := snap.Versions[uri]
		if err := s.sendPublish(uri, &v, snap.Diagnostics(uri)); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}

func (s *Server) sendPublish(uri string, v *int, list []Diagnostic) error {
	if list == nil {
		list = []Diagnostic{}
	}
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params":  publishDiagnosticsParams{URI: uri, Version: v, Diagnostics: list},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}
