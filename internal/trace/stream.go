package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes every event to w as it arrives. Events are stamped
// with the tracer's run id when they carry none.
type StreamTracer struct {
	mu       sync.Mutex
	w        io.Writer
	level    Level
	format   Format
	run      string
	written  int
	writeErr error
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

// WithRun sets the run id stamped on subsequent events.
func (t *StreamTracer) WithRun(id string) *StreamTracer {
	t.mu.Lock()
	t.run = id
	t.mu.Unlock()
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	if ev.Run == "" {
		ev.Run = t.run
	}
	// a failed write never fails the run; Flush reports the first one
	if _, err := t.w.Write(FormatEvent(*ev, t.format)); err != nil {
		if t.writeErr == nil {
			t.writeErr = err
		}
		return
	}
	t.written++
}

// Written counts events that reached w.
func (t *StreamTracer) Written() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	werr := t.writeErr
	t.mu.Unlock()
	if werr != nil {
		return werr
	}
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes w unless it is a standard stream.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
