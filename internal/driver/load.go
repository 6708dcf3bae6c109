package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/parser"
	"vela/internal/project"
	"vela/internal/source"
	"vela/internal/trace"
)

// Unit is everything one check run reads.
type Unit struct {
	Root     string
	Manifest *project.Manifest // nil when no vela.toml was found
	Files    *source.FileSet
	ASTs     []*ast.File
	// Syntax holds lexer and parser diagnostics in file order.
	Syntax []diag.Diagnostic
}

// LoadOptions tune LoadUnit.
type LoadOptions struct {
	// Jobs bounds parallel parsing; <= 0 uses GOMAXPROCS.
	Jobs int
	// Progress receives a queued event per file after loading and a done
	// event per file after parsing.
	Progress ProgressSink
}

// LoadUnit loads path, which may be a project directory, any directory
// inside a project, a plain directory of .vl files or a single .vl file.
func LoadUnit(ctx context.Context, path string, opts LoadOptions) (*Unit, error) {
	if path == "" {
		path = "."
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "load", trace.ParentID(ctx))
	defer span.End("")

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	unit := &Unit{}
	var paths []string
	switch {
	case !info.IsDir():
		unit.Root = filepath.Dir(path)
		paths = []string{path}
	default:
		m, err := project.Load(path)
		switch {
		case err == nil:
			unit.Manifest = m
			unit.Root = m.Root
			if paths, err = m.Sources(); err != nil {
				return nil, err
			}
		case errors.Is(err, project.ErrNoManifest):
			unit.Root = path
			if paths, err = project.ListSources(path); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	unit.Files = source.NewFileSetWithBase(unit.Root)
	ids := make([]source.FileID, 0, len(paths))
	for _, p := range paths {
		id, err := unit.Files.Load(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
		ids = append(ids, id)
	}
	span.WithExtra("files", fmt.Sprint(len(ids)))

	for _, id := range ids {
		emit(opts.Progress, Event{File: unit.Files.Get(id).Path, Stage: StageParse, Status: StatusQueued})
	}
	unit.ASTs, unit.Syntax, err = parseFiles(ctx, unit.Files, ids, opts.Jobs, opts.Progress)
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// ParseFiles parses ids concurrently. Results keep the order of ids so the
// output does not depend on scheduling. fs is only read.
func ParseFiles(ctx context.Context, fs *source.FileSet, ids []source.FileID, jobs int) ([]*ast.File, []diag.Diagnostic, error) {
	return parseFiles(ctx, fs, ids, jobs, nil)
}

func parseFiles(ctx context.Context, fs *source.FileSet, ids []source.FileID, jobs int, sink ProgressSink) ([]*ast.File, []diag.Diagnostic, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	files := make([]*ast.File, len(ids))
	bags := make([]*diag.Bag, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))
	for i, id := range ids {
		f := fs.Get(id)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(sink, Event{File: f.Path, Stage: StageParse, Status: StatusWorking})
			// each goroutine owns index i
			bags[i] = diag.NewBag(0)
			// recovery can report the same error at one span repeatedly
			dedup := diag.NewDedupReporter(diag.BagReporter{Bag: bags[i]})
			files[i] = parser.ParseFile(f, parser.Options{Reporter: dedup})
			if n := dedup.Suppressed(); n > 0 {
				trace.Point(trace.FromContext(ctx), trace.ScopeModule, "parse.dedup", f.Path,
					map[string]string{"suppressed": strconv.Itoa(n)})
			}
			emit(sink, Event{File: f.Path, Stage: StageParse, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var syntax []diag.Diagnostic
	for _, b := range bags {
		syntax = append(syntax, b.Items()...)
	}
	return files, syntax, nil
}
