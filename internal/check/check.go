package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vela/internal/arena"
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/trace"
)

// Stage is the last pipeline stage a run reached.
type Stage uint8

const (
	StageParsed Stage = iota
	StageCollected
	StageResolved
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageParsed:
		return "parsed"
	case StageCollected:
		return "collected"
	case StageResolved:
		return "resolved"
	case StageFinished:
		return "finished"
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// ErrInvariant wraps internal invariant violations (dangling handles). It
// signals a checker bug, not a problem in the checked program.
var ErrInvariant = errors.New("check: internal invariant violated")

// Result is the snapshot of a finished run.
type Result struct {
	// OK is true iff no error-severity diagnostic was recorded.
	OK          bool
	Diagnostics []diag.Diagnostic
	Engines     *engines.Engines
	Files       []*ast.File
	Stage       Stage
	// Steps holds the wall time of each stage in run order.
	Steps []StepTime
}

// StepTime is the duration of one pipeline stage.
type StepTime struct {
	Name string
	Dur  time.Duration
}

// Errors counts error-severity diagnostics.
func (r *Result) Errors() int {
	n := 0
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity == diag.SevError {
			n++
		}
	}
	return n
}

// Run checks files against eng. Syntax diagnostics already collected by the
// caller are passed in pre and take part in the verdict.
//
// A cancelled context returns ctx.Err(); an invariant violation returns an
// error wrapping ErrInvariant. In both cases the result is nil.
func Run(ctx context.Context, eng *engines.Engines, files []*ast.File, pre []diag.Diagnostic, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			var iv *arena.InvariantViolation
			if e, ok := r.(error); ok && errors.As(e, &iv) {
				res, err = nil, fmt.Errorf("%w: %v", ErrInvariant, iv)
				return
			}
			panic(r)
		}
	}()

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "check", trace.ParentID(ctx))
	defer span.End("")

	bag := diag.NewBag(opts.MaxDiagnostics)
	c := newChecker(ctx, eng, bag, opts)
	for _, d := range pre {
		c.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}

	stage := StageParsed
	var times []StepTime
	steps := []struct {
		name string
		run  func() error
		done Stage
	}{
		{"collect", func() error { return c.collect(files) }, StageCollected},
		{"resolve", c.resolve, StageResolved},
		{"finish", c.finish, StageFinished},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sp := trace.Begin(tracer, trace.ScopeModule, "check."+step.name, span.ID())
		began := time.Now()
		err := step.run()
		sp.End("")
		times = append(times, StepTime{Name: step.name, Dur: time.Since(began)})
		if err != nil {
			return nil, err
		}
		stage = step.done
	}

	bag.Sort()
	bag.Dedup()
	return &Result{
		OK:          c.errors == 0,
		Diagnostics: bag.Items(),
		Engines:     eng,
		Files:       files,
		Stage:       stage,
		Steps:       times,
	}, nil
}
