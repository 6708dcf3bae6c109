package ui

import (
	"strings"
	"testing"

	"vela/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("checking demo", []string{"src/a.vl"}, events).(*progressModel)

	model.Update(eventMsg{File: "src/a.vl", Stage: driver.StageParse, Status: driver.StatusDone})
	if model.items[0].status != "parsed" {
		t.Fatalf("status = %q", model.items[0].status)
	}
	model.Update(eventMsg{File: "src/b.vl", Stage: driver.StageCheck, Status: driver.StatusError})
	if len(model.items) != 2 || model.items[1].status != "error" {
		t.Fatalf("late file not appended: %+v", model.items)
	}
	if got := model.percent(); got != 0.75 {
		t.Fatalf("percent = %v", got)
	}
	view := model.View()
	for _, want := range []string{"checking demo", "src/a.vl", "parsed", "src/b.vl", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	model := NewProgressModel("x", []string{"a.vl"}, events).(*progressModel)
	msg := model.listen()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	model.Update(msg)
	if !model.done || !strings.HasPrefix(strings.TrimSpace(model.View()), "done: x") {
		t.Fatalf("model not finished:\n%s", model.View())
	}
}
