package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vela/internal/diag"
	"vela/internal/source"
)

func unused(id source.FileID, start, end uint32, name string) diag.Diagnostic {
	sp := source.Span{File: id, Start: start, End: end}
	return diag.New(diag.SevWarning, diag.SemaUnusedVariable, sp, "unused variable: `"+name+"`").
		WithFix("prefix it with an underscore", diag.FixEdit{Span: sp, NewText: "_" + name})
}

const src = "fn f() { let a = 1; let b = 2; }\n"

func TestApplyAllWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.vl")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ds := []diag.Diagnostic{unused(id, 24, 25, "b"), unused(id, 13, 14, "a")}
	res, err := Apply(fs, ds, Options{Mode: ModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 2 || res.Applied[0].ID != ID(ds[1], 0) {
		t.Fatalf("applied = %+v", res.Applied)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "fn f() { let _a = 1; let _b = 2; }\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyOnceAndByID(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.vl", []byte(src))
	ds := []diag.Diagnostic{unused(id, 13, 14, "a"), unused(id, 24, 25, "b")}

	res, err := Apply(fs, ds, Options{Mode: ModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("once: %v", err)
	}
	if string(res.FileChanges[0].Content) != "fn f() { let _a = 1; let b = 2; }\n" {
		t.Fatalf("once content = %q", res.FileChanges[0].Content)
	}

	res, err = Apply(fs, ds, Options{Mode: ModeID, TargetID: ID(ds[1], 0), DryRun: true})
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if string(res.FileChanges[0].Content) != "fn f() { let a = 1; let _b = 2; }\n" {
		t.Fatalf("id content = %q", res.FileChanges[0].Content)
	}

	if _, err := Apply(fs, ds, Options{Mode: ModeID, TargetID: "nope", DryRun: true}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestVirtualFilesAreNotWritten(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.vl", []byte(src))
	res, err := Apply(fs, []diag.Diagnostic{unused(id, 13, 14, "a")}, Options{Mode: ModeAll})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 {
		t.Fatalf("expected a skip, got %+v, %v", res, err)
	}
}

func TestConflictingFixIsSkipped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.vl", []byte(src))
	sp := source.Span{File: id, Start: 13, End: 18}
	other := diag.NewError(diag.SemaError, sp, "overlap").WithFix("rewrite", diag.FixEdit{Span: sp, NewText: "x"})
	res, err := Apply(fs, []diag.Diagnostic{unused(id, 13, 14, "a"), other}, Options{Mode: ModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d", len(res.Applied), len(res.Skipped))
	}
}
