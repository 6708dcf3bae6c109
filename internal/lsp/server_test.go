package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) messages(t *testing.T) []rpcMessage {
	t.Helper()
	b.mu.Lock()
	data := append([]byte(nil), b.buf.Bytes()...)
	b.mu.Unlock()
	r := bufio.NewReader(bytes.NewReader(data))
	var out []rpcMessage
	for {
		payload, err := readMessage(r)
		if err != nil {
			return out
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("bad payload %s: %v", payload, err)
		}
		out = append(out, msg)
	}
}

func send(t *testing.T, w io.Writer, msg map[string]any) {
	t.Helper()
	msg["jsonrpc"] = "2.0"
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := writeMessage(w, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func waitFor(t *testing.T, out *syncBuffer, what string, pred func(rpcMessage) bool) rpcMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, m := range out.messages(t) {
			if pred(m) {
				return m
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
	return rpcMessage{}
}

func TestServerPublishesAndAnswersCodeActions(t *testing.T) {
	inR, inW := io.Pipe()
	out := &syncBuffer{}
	srv := NewServer(inR, out, ServerOptions{Debounce: time.Millisecond, Log: io.Discard})
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	send(t, inW, map[string]any{"id": 1, "method": "initialize", "params": map[string]any{}})
	waitFor(t, out, "initialize result", func(m rpcMessage) bool {
		return string(m.ID) == "1" && strings.Contains(string(m.Result), `"codeActionProvider":true`)
	})

	send(t, inW, map[string]any{"method": "textDocument/didOpen", "params": map[string]any{
		"textDocument": map[string]any{"uri": testURI, "languageId": "vela", "version": 1, "text": badSource},
	}})
	pub := waitFor(t, out, "diagnostics", func(m rpcMessage) bool {
		return m.Method == "textDocument/publishDiagnostics"
	})
	var params publishDiagnosticsParams
	if err := json.Unmarshal(pub.Params, &params); err != nil {
		t.Fatalf("decode publish: %v", err)
	}
	if params.URI != testURI || len(params.Diagnostics) != 1 || params.Version == nil || *params.Version != 1 {
		t.Fatalf("unexpected publish %+v", params)
	}

	send(t, inW, map[string]any{"id": 2, "method": "textDocument/codeAction", "params": map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"range":        map[string]any{"start": map[string]any{"line": 0, "character": 8}, "end": map[string]any{"line": 0, "character": 8}},
	}})
	resp := waitFor(t, out, "code actions", func(m rpcMessage) bool { return string(m.ID) == "2" })
	var actions []CodeAction
	if err := json.Unmarshal(resp.Result, &actions); err != nil {
		t.Fatalf("decode actions: %v", err)
	}
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}

	send(t, inW, map[string]any{"id": 3, "method": "shutdown"})
	send(t, inW, map[string]any{"method": "exit"})
	select {
	case err := <-done:
		if !errors.Is(err, ErrExit) {
			t.Fatalf("expected ErrExit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not exit")
	}
}

func TestUnknownRequestIsAnError(t *testing.T) {
	in := &bytes.Buffer{}
	out := &syncBuffer{}
	send(t, in, map[string]any{"id": 7, "method": "textDocument/hover"})
	if err := NewServer(in, out, ServerOptions{Log: io.Discard}).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	msgs := out.messages(t)
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != errMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", msgs)
	}
}
