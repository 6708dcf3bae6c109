package types

import (
	"errors"
	"testing"
)

func TestInternStructuralEquality(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a1 := in.Tuple([]TypeID{b.U64, in.Array(b.Bool, 4)})
	a2 := in.Tuple([]TypeID{b.U64, in.Array(b.Bool, 4)})
	if a1 != a2 {
		t.Fatalf("structurally equal tuples interned to %d and %d", a1, a2)
	}
	if in.Struct(1, []TypeID{b.U8}) == in.Struct(1, []TypeID{b.U16}) {
		t.Fatalf("different arguments must not collide")
	}
	if in.Struct(1, nil) == in.Enum(1, nil) {
		t.Fatalf("struct and enum with the same index must differ")
	}
	if in.Tuple(nil) != b.Unit {
		t.Fatalf("empty tuple must be unit")
	}
	if in.Ref(b.U64, true) == in.Ref(b.U64, false) {
		t.Fatalf("mutability is part of the reference type")
	}
	if in.Uint(Width32) != b.U32 {
		t.Fatalf("Uint(32) must be the builtin")
	}
}

func TestGenericsAreDistinct(t *testing.T) {
	in := NewInterner()
	t1 := in.NewGeneric("T")
	t2 := in.NewGeneric("T")
	if t1 == t2 {
		t.Fatalf("generics of different owners must differ")
	}
	if in.GenericName(t2) != "T" {
		t.Fatalf("name = %q", in.GenericName(t2))
	}
	if err := in.Unify(t1, t2); err == nil {
		t.Fatalf("distinct generics must not unify")
	}
}

func TestUnifyPrimitiveMismatch(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	err := in.Unify(b.U64, b.Bool)
	var m *Mismatch
	if !errors.As(err, &m) {
		t.Fatalf("expected *Mismatch, got %v", err)
	}
	if m.Expected != b.U64 || m.Found != b.Bool {
		t.Fatalf("mismatch = %+v", m)
	}
}

func TestPlaceholderBindsAndResolves(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p := in.Fresh()
	q := in.Fresh()
	pair := in.Tuple([]TypeID{p, q})
	if err := in.Unify(pair, in.Tuple([]TypeID{b.U8, b.Str})); err != nil {
		t.Fatalf("unify: %v", err)
	}
	if got := in.Resolve(pair); got != in.Tuple([]TypeID{b.U8, b.Str}) {
		t.Fatalf("resolved to %s", in.Format(got, nil))
	}
	if in.HasPlaceholders(pair) {
		t.Fatalf("pair should be fully resolved")
	}
}

func TestPlaceholderChainsCompress(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	ps := make([]TypeID, 10)
	for i := range ps {
		ps[i] = in.Fresh()
	}
	for i := 1; i < len(ps); i++ {
		if err := in.Unify(ps[i-1], ps[i]); err != nil {
			t.Fatalf("unify placeholders: %v", err)
		}
	}
	if err := in.Unify(ps[0], b.B256); err != nil {
		t.Fatalf("unify: %v", err)
	}
	for _, p := range ps {
		if in.Resolve(p) != b.B256 {
			t.Fatalf("placeholder %d resolved to %s", p, in.Format(p, nil))
		}
	}
}

func TestOccursCheck(t *testing.T) {
	in := NewInterner()
	p := in.Fresh()
	if err := in.Unify(p, in.Array(p, 2)); err == nil {
		t.Fatalf("p = [p; 2] must fail the occurs check")
	}
	if !in.HasPlaceholders(p) {
		t.Fatalf("failed unification must leave p unbound")
	}
}

func TestFailedUnifyRollsBack(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p := in.Fresh()
	err := in.Unify(in.Tuple([]TypeID{p, b.U64}), in.Tuple([]TypeID{b.Bool, b.Str}))
	if err == nil {
		t.Fatalf("expected mismatch")
	}
	if in.Resolve(p) != p {
		t.Fatalf("partial binding leaked: p = %s", in.Format(p, nil))
	}
}

func TestErrorAndNeverUnifySilently(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := in.Struct(3, []TypeID{b.U8})
	for _, other := range []TypeID{b.U64, s, in.Tuple([]TypeID{b.Bool, b.Bool})} {
		if err := in.Unify(b.Error, other); err != nil {
			t.Fatalf("error vs %s: %v", in.Format(other, nil), err)
		}
		if err := in.Unify(other, b.Never); err != nil {
			t.Fatalf("%s vs never: %v", in.Format(other, nil), err)
		}
	}
	if !in.ContainsError(in.Tuple([]TypeID{b.U8, b.Error})) {
		t.Fatalf("ContainsError missed nested error")
	}
}

func TestNamedTypesUnifyByDeclAndArgs(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p := in.Fresh()
	if err := in.Unify(in.Struct(2, []TypeID{p}), in.Struct(2, []TypeID{b.U32})); err != nil {
		t.Fatalf("unify: %v", err)
	}
	if in.Resolve(p) != b.U32 {
		t.Fatalf("argument not inferred")
	}
	if err := in.Unify(in.Struct(2, []TypeID{b.U32}), in.Struct(4, []TypeID{b.U32})); err == nil {
		t.Fatalf("different declarations must not unify")
	}
	if err := in.Unify(in.Array(b.U8, 2), in.Array(b.U8, 3)); err == nil {
		t.Fatalf("array length mismatch must fail")
	}
	if err := in.Unify(in.Ref(b.U8, true), in.Ref(b.U8, false)); err == nil {
		t.Fatalf("mutability mismatch must fail")
	}
}

func TestIntPlaceholder(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	lit := in.FreshInt()
	if err := in.Unify(b.Bool, lit); err == nil {
		t.Fatalf("integer literal must not become bool")
	}
	free := in.Fresh()
	if err := in.Unify(free, lit); err != nil {
		t.Fatalf("unify placeholders: %v", err)
	}
	if err := in.Unify(free, b.Str); err == nil {
		t.Fatalf("class must propagate through placeholder binding")
	}
	if !in.DefaultInt(free, b.U64) || in.Resolve(lit) != b.U64 {
		t.Fatalf("literal should default to u64")
	}
	if in.DefaultInt(lit, b.U8) {
		t.Fatalf("bound placeholder must not be defaulted again")
	}
}

func TestSubstituteAndPoison(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	g := in.NewGeneric("T")
	sig := in.Tuple([]TypeID{g, in.Ref(g, false)})
	got := in.Substitute(sig, map[TypeID]TypeID{g: b.U16})
	if got != in.Tuple([]TypeID{b.U16, in.Ref(b.U16, false)}) {
		t.Fatalf("substitute = %s", in.Format(got, nil))
	}
	if !in.ContainsGeneric(sig) || in.ContainsGeneric(got) {
		t.Fatalf("ContainsGeneric is wrong")
	}
	p := in.Fresh()
	in.Poison(in.Array(p, 1))
	if in.Resolve(p) != b.Error {
		t.Fatalf("poison must bind to the error sentinel")
	}
}

type fakeNamer map[uint32]string

func (n fakeNamer) DeclName(_ Kind, decl uint32) string { return n[decl] }

func TestFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		want string
	}{
		{b.U64, "u64"},
		{b.Unit, "()"},
		{in.Tuple([]TypeID{b.Bool}), "(bool,)"},
		{in.Array(b.U8, 32), "[u8; 32]"},
		{in.Ref(b.Str, true), "&mut str"},
		{in.Struct(1, []TypeID{b.U8, b.B256}), "Point<u8, b256>"},
		{in.FreshInt(), "{integer}"},
		{b.Error, "{unknown}"},
	}
	for _, tc := range cases {
		if got := in.Format(tc.id, fakeNamer{1: "Point"}); got != tc.want {
			t.Fatalf("format = %q, want %q", got, tc.want)
		}
	}
}
