package decl

import (
	"errors"
	"testing"

	"vela/internal/arena"
	"vela/internal/source"
	"vela/internal/types"
)

func newEngine() (*Engine, *types.Interner, *source.Interner) {
	ti := types.NewInterner()
	si := source.NewInterner()
	return NewEngine(ti, si), ti, si
}

// genericBox inserts `struct Box<T> { value: T, tag: u8 }`.
func genericBox(e *Engine, ti *types.Interner, si *source.Interner) StructHandle {
	t := ti.NewGeneric("T")
	h := e.InsertStruct(Struct{
		Common:   Common{Name: si.Intern("Box")},
		Generics: []types.TypeID{t},
		Fields: []Field{
			{Name: si.Intern("value"), Type: t},
			{Name: si.Intern("tag"), Type: ti.Builtins().U8},
		},
	})
	s := e.GetStruct(h)
	s.Type = ti.Struct(h.Index(), s.Generics)
	return h
}

func TestMonomorphizationIsolation(t *testing.T) {
	e, ti, si := newEngine()
	b := ti.Builtins()
	box := genericBox(e, ti, si)

	h64, err := e.MonomorphizeStruct(box, []types.TypeID{b.U64})
	if err != nil {
		t.Fatalf("monomorphize u64: %v", err)
	}
	hBool, err := e.MonomorphizeStruct(box, []types.TypeID{b.Bool})
	if err != nil {
		t.Fatalf("monomorphize bool: %v", err)
	}
	if h64 == hBool || h64 == box || hBool == box {
		t.Fatalf("specializations must get distinct handles: %d %d %d", box, h64, hBool)
	}
	if e.GetStruct(h64).Fields[0].Type != b.U64 || e.GetStruct(hBool).Fields[0].Type != b.Bool {
		t.Fatalf("field types not substituted")
	}

	again, err := e.MonomorphizeStruct(box, []types.TypeID{b.U64})
	if err != nil || again != h64 {
		t.Fatalf("equal arguments must share a handle, got %d (%v)", again, err)
	}

	mutated := *e.GetStruct(h64)
	mutated.Fields = append([]Field(nil), mutated.Fields...)
	mutated.Fields[1].Type = b.B256
	e.ReplaceStruct(h64, mutated)

	if e.GetStruct(hBool).Fields[1].Type != b.U8 {
		t.Fatalf("replace leaked into the sibling specialization")
	}
	orig := e.GetStruct(box)
	if ti.MustLookup(orig.Fields[0].Type).Kind != types.KindGeneric || orig.Fields[1].Type != b.U8 {
		t.Fatalf("replace leaked into the generic original")
	}
	if e.GetStruct(h64).Origin != box {
		t.Fatalf("specialization must remember its origin")
	}
}

func TestMonomorphizeDefersUnresolvedArgs(t *testing.T) {
	e, ti, si := newEngine()
	box := genericBox(e, ti, si)
	before := e.Count(KindStruct)
	_, err := e.MonomorphizeStruct(box, []types.TypeID{ti.Tuple([]types.TypeID{ti.Fresh()})})
	if !errors.Is(err, ErrUnresolvedArgs) {
		t.Fatalf("expected ErrUnresolvedArgs, got %v", err)
	}
	if _, err := e.MonomorphizeStruct(box, nil); !errors.Is(err, ErrArgCount) {
		t.Fatalf("expected ErrArgCount, got %v", err)
	}
	if e.Count(KindStruct) != before {
		t.Fatalf("failed specialization must not insert")
	}
}

func TestMonomorphizeFunctionSubstitutesSignature(t *testing.T) {
	e, ti, si := newEngine()
	b := ti.Builtins()
	g := ti.NewGeneric("T")
	id := e.InsertFunction(Function{
		Common:   Common{Name: si.Intern("id")},
		Generics: []types.TypeID{g},
		Params:   []Param{{Name: si.Intern("x"), Type: g}},
		Ret:      ti.Ref(g, false),
	})
	spec, err := e.MonomorphizeFunction(id, []types.TypeID{b.Str})
	if err != nil {
		t.Fatalf("monomorphize: %v", err)
	}
	f := e.GetFunction(spec)
	if f.Params[0].Type != b.Str || f.Ret != ti.Ref(b.Str, false) || len(f.Generics) != 0 {
		t.Fatalf("bad specialization %+v", f)
	}
	if e.GetFunction(id).Params[0].Type != g {
		t.Fatalf("original changed")
	}
}

func TestDeclareKeepsFirst(t *testing.T) {
	e, _, si := newEngine()
	foo := si.Intern("foo")
	first := e.InsertFunction(Function{Common: Common{Name: foo}})
	second := e.InsertFunction(Function{Common: Common{Name: foo}})
	if _, ok := e.Declare(RootScope, foo, RefFunction(first)); !ok {
		t.Fatalf("first declaration must succeed")
	}
	prev, ok := e.Declare(RootScope, foo, RefFunction(second))
	if ok || prev != RefFunction(first) {
		t.Fatalf("second declaration must report the first, got %v ok=%v", prev, ok)
	}
	got, ok := e.LookupFunction(foo)
	if !ok || got != first {
		t.Fatalf("LookupFunction = %d, want %d", got, first)
	}
	if _, ok := e.Lookup(ScopeOf(RefFunction(first)), foo); ok {
		t.Fatalf("scopes must not leak into each other")
	}
	refs := e.Refs()
	if len(refs) != 2 || refs[0] != RefFunction(first) || refs[1] != RefFunction(second) {
		t.Fatalf("refs = %v", refs)
	}
}

func TestRefAccessorsAreKindChecked(t *testing.T) {
	r := RefEnum(EnumHandle(3))
	if _, ok := r.Struct(); ok {
		t.Fatalf("enum ref must not read as struct")
	}
	if h, ok := r.Enum(); !ok || h != 3 {
		t.Fatalf("enum accessor = %d %v", h, ok)
	}
	if (Ref{}).IsValid() {
		t.Fatalf("zero ref must be invalid")
	}
}

func TestForeignHandlePanics(t *testing.T) {
	e, _, _ := newEngine()
	defer func() {
		if _, ok := recover().(*arena.InvariantViolation); !ok {
			t.Fatalf("expected *arena.InvariantViolation")
		}
	}()
	e.GetTrait(TraitHandle(7))
}

func TestDescribeAndNamer(t *testing.T) {
	e, ti, si := newEngine()
	box := genericBox(e, ti, si)
	sum := e.Describe(RefStruct(box))
	if sum.Name != "Box" || sum.Specialized {
		t.Fatalf("summary = %+v", sum)
	}
	if got := ti.Format(ti.Struct(box.Index(), []types.TypeID{ti.Builtins().U8}), e); got != "Box<u8>" {
		t.Fatalf("format = %q", got)
	}
}

func TestImplsOf(t *testing.T) {
	e, ti, si := newEngine()
	b := ti.Builtins()
	box := genericBox(e, ti, si)
	s := e.GetStruct(box)
	first := e.InsertImpl(Impl{Target: s.Type})
	second := e.InsertImpl(Impl{Target: s.Type})
	s.Impls = append(s.Impls, first, second)
	abi := e.InsertImpl(Impl{Target: b.Contract})

	got := e.ImplsOf(s.Type)
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("struct impls = %v", got)
	}
	if got := e.ImplsOf(b.Contract); len(got) != 1 || got[0] != abi {
		t.Fatalf("contract impls = %v", got)
	}
	if got := e.ImplsOf(b.U64); got != nil {
		t.Fatalf("primitive has impls: %v", got)
	}
}
