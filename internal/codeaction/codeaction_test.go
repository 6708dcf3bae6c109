package codeaction

import (
	"context"
	"strings"
	"testing"

	"vela/internal/ast"
	"vela/internal/check"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/parser"
)

func checked(t *testing.T, src string) *check.Result {
	t.Helper()
	eng := engines.New(nil)
	id := eng.Files.AddVirtual("main.vl", []byte(src))
	bag := diag.NewBag(0)
	file := parser.ParseFile(eng.Files.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	res, err := check.Run(context.Background(), eng, []*ast.File{file}, bag.Items(), check.Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return res
}

func structNamed(t *testing.T, res *check.Result, name string) decl.StructHandle {
	t.Helper()
	r, ok := res.Engines.Decls.Lookup(decl.RootScope, res.Engines.Strings.Intern(name))
	if !ok {
		t.Fatalf("%s not declared", name)
	}
	h, ok := r.Struct()
	if !ok {
		t.Fatalf("%s is a %s", name, r.Kind)
	}
	return h
}

func apply(src string, a Action) string {
	off := a.Edit.Offset()
	return src[:off] + a.Edit.Text + src[off:]
}

func TestEmptyStruct(t *testing.T) {
	res := checked(t, "struct Empty {}")
	h := structNamed(t, res, "Empty")

	impl := StructImpl(res.Engines, h)
	if impl.Edit.Text != "\n\nimpl Empty {\n}" {
		t.Fatalf("impl skeleton = %q", impl.Edit.Text)
	}
	ctor := StructNew(res.Engines, h)
	if !strings.Contains(ctor.Edit.Text, "pub fn new() -> Self {") || !strings.Contains(ctor.Edit.Text, "Self {}") {
		t.Fatalf("constructor skeleton = %q", ctor.Edit.Text)
	}
	doc, ok := DocComment(res.Engines, decl.RefStruct(h))
	if !ok || doc.Edit.Text != "/// Add a brief description.\n" {
		t.Fatalf("doc skeleton = %q", doc.Edit.Text)
	}
}

func TestConstructorFollowsFieldOrder(t *testing.T) {
	res := checked(t, "struct Point<T> { x: T, y: u64 }")
	h := structNamed(t, res, "Point")
	ctor := StructNew(res.Engines, h)
	for _, want := range []string{"impl<T> Point<T> {", "pub fn new(x: T, y: u64) -> Self {", "Self { x, y }"} {
		if !strings.Contains(ctor.Edit.Text, want) {
			t.Fatalf("missing %q in %q", want, ctor.Edit.Text)
		}
	}
	impl := StructImpl(res.Engines, h)
	if !strings.Contains(impl.Edit.Text, "fn x(self) -> T {") || !strings.Contains(impl.Edit.Text, "self.y") {
		t.Fatalf("impl skeleton = %q", impl.Edit.Text)
	}
	if ctor.Edit.Position != After || ctor.Edit.Anchor != res.Engines.Decls.GetStruct(h).Span {
		t.Fatalf("constructor must be anchored after the struct")
	}
}

func TestGeneratedCodeChecks(t *testing.T) {
	src := "struct Point { x: u64, y: bool }"
	res := checked(t, src)
	h := structNamed(t, res, "Point")
	out := apply(src, StructNew(res.Engines, h))
	out = apply(out, StructImpl(res.Engines, h))
	out = apply(out, ForStruct(res.Engines, h)[2])
	again := checked(t, out)
	if !again.OK || len(again.Diagnostics) != 0 {
		t.Fatalf("generated code has diagnostics:\n%s\n%v", out, again.Diagnostics)
	}
}

func TestActionsArePure(t *testing.T) {
	res := checked(t, "struct A { v: u64 }\nenum E { X, Y: u64 }\nfn f(a: u64) -> u64 { a }")
	eng := res.Engines
	refs := len(eng.Decls.Refs())
	typesBefore := eng.Types.Len()
	stringsBefore := eng.Strings.Len()
	for i := 0; i < 3; i++ {
		for _, r := range eng.Decls.Refs() {
			ForDecl(eng, r)
		}
	}
	if len(eng.Decls.Refs()) != refs || eng.Types.Len() != typesBefore || eng.Strings.Len() != stringsBefore {
		t.Fatalf("code actions mutated the engines")
	}
}

func TestFunctionDoc(t *testing.T) {
	res := checked(t, "fn add(a: u64, b: u64) -> u64 { a + b }")
	h, ok := res.Engines.Decls.LookupFunction(res.Engines.Strings.Intern("add"))
	if !ok {
		t.Fatalf("add not declared")
	}
	doc, ok := DocComment(res.Engines, decl.RefFunction(h))
	if !ok {
		t.Fatalf("no doc action")
	}
	want := "/// Add a brief description.\n///\n/// # Arguments\n///\n/// * `a`: `u64`\n/// * `b`: `u64`\n///\n/// # Returns\n///\n/// * `u64`\n"
	if doc.Edit.Text != want {
		t.Fatalf("doc = %q", doc.Edit.Text)
	}
	if doc.Edit.Offset() != 0 {
		t.Fatalf("doc must be inserted before the function, got %d", doc.Edit.Offset())
	}
}

func TestAtFindsInnermost(t *testing.T) {
	src := "struct P { x: u64 }\nimpl P {\n    fn get(self) -> u64 { self.x }\n}\n"
	res := checked(t, src)
	eng := res.Engines

	r, ok := At(eng, 0, uint32(strings.Index(src, "x: u64")))
	if !ok || r.Kind != decl.KindStruct {
		t.Fatalf("expected struct, got %v", r)
	}
	r, ok = At(eng, 0, uint32(strings.Index(src, "self.x")))
	if !ok || r.Kind != decl.KindFunction {
		t.Fatalf("expected member function, got %v", r)
	}
	if got := ForDecl(eng, r); len(got) != 1 || got[0].Kind != KindDocComment {
		t.Fatalf("function actions = %v", got)
	}
	if _, ok := At(eng, 0, uint32(len(src))); ok {
		t.Fatalf("offset past the last item must not match")
	}
}

func TestForDeclKinds(t *testing.T) {
	res := checked(t, "struct S {}\nimpl S {}\nstorage { n: u64 = 0 }")
	for _, r := range res.Engines.Decls.Refs() {
		got := ForDecl(res.Engines, r)
		switch r.Kind {
		case decl.KindStruct:
			if len(got) != 3 {
				t.Fatalf("struct actions = %d", len(got))
			}
		case decl.KindImpl, decl.KindStorage:
			if got != nil {
				t.Fatalf("%s must have no actions", r.Kind)
			}
		}
	}
}
