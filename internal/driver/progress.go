package driver

import (
	"time"

	"vela/internal/diag"
)

// Stage is a pipeline phase reported to progress sinks.
type Stage string

const (
	StageParse Stage = "parse"
	StageCheck Stage = "check"
)

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole unit when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; parse events arrive from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to Ch.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// ReportOutcome marks every file of the unit done, or error when an
// error-severity diagnostic points into it.
func ReportOutcome(sink ProgressSink, out *Outcome) {
	if sink == nil || out == nil || out.Unit == nil {
		return
	}
	failed := make(map[string]bool)
	for _, d := range out.Diagnostics {
		if d.Severity == diag.SevError && out.Unit.Files.HasFile(d.Primary.File) {
			failed[out.Unit.Files.Get(d.Primary.File).Path] = true
		}
	}
	for _, f := range out.Unit.Files.Files() {
		status := StatusDone
		if failed[f.Path] {
			status = StatusError
		}
		sink.OnEvent(Event{File: f.Path, Stage: StageCheck, Status: status})
	}
}
