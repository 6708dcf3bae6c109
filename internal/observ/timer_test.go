package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMeasureRecordsFailure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("parse", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("check", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[1].Note != "failed" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if s := tm.Summary(); !strings.Contains(s, "check") || !strings.Contains(s, "total") {
		t.Fatalf("summary missing rows:\n%s", s)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer recorded phases")
	}
}

func TestNestedStepsExcludedFromTotal(t *testing.T) {
	tm := NewTimer()
	tm.Record(Phase{Name: "check", Dur: 4 * time.Millisecond})
	tm.Record(Phase{Name: "collect", Dur: 3 * time.Millisecond, Depth: 1})
	rep := tm.Report()
	if rep.TotalMS != 4 {
		t.Fatalf("total = %v", rep.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "    collect") {
		t.Fatalf("nested step not indented:\n%s", s)
	}
}
