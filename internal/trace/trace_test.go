package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeSession, "run", 0)
	Begin(tr, ScopeModule, "check.collect", root.ID()).End("")
	root.End("published")
	out := buf.String()
	if strings.Contains(out, "check.collect") {
		t.Fatalf("module scope must be filtered at phase level:\n%s", out)
	}
	if !strings.Contains(out, "← run (published)") {
		t.Fatalf("missing end event:\n%s", out)
	}
}

func TestNDJSONCarriesExtra(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeSession, "discard", "stale", map[string]string{"seq": "3"})
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if ev["kind"] != "point" || ev["scope"] != "session" {
		t.Fatalf("unexpected event %v", ev)
	}
	extra, ok := ev["extra"].(map[string]any)
	if !ok || extra["seq"] != "3" {
		t.Fatalf("extra lost: %v", ev)
	}
}

func TestDisabledSpanIsInert(t *testing.T) {
	sp := Begin(FromContext(context.Background()), ScopeDriver, "check", 0)
	if sp.ID() != 0 || sp.End("") != 0 {
		t.Fatalf("nop tracer produced a live span")
	}
}

func TestParentPropagation(t *testing.T) {
	ctx := WithParent(context.Background(), 42)
	if ParentID(ctx) != 42 || ParentID(context.Background()) != 0 {
		t.Fatalf("parent id not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("got %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunIDStamped(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText).WithRun("1f2e3d4c-0000-4000-8000-000000000000")
	Begin(tr, ScopeDriver, "check", 0).End("")
	if !strings.Contains(buf.String(), " 1f2e3d4c] driver") {
		t.Fatalf("run id missing:\n%s", buf.String())
	}
	if tr.Written() != 2 {
		t.Fatalf("written = %d", tr.Written())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorSurfacesOnFlush(t *testing.T) {
	tr := NewStreamTracer(failingWriter{}, LevelDebug, FormatNDJSON)
	Point(tr, ScopePass, "parse", "", nil)
	if err := tr.Flush(); err == nil || err.Error() != "disk full" {
		t.Fatalf("flush = %v", err)
	}
	if tr.Written() != 0 {
		t.Fatalf("failed write counted")
	}
}
