package check

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/parser"
)

func parse(t *testing.T, src string) (*engines.Engines, []*ast.File, []diag.Diagnostic) {
	t.Helper()
	eng := engines.New(nil)
	id := eng.Files.AddVirtual("main.vl", []byte(src))
	bag := diag.NewBag(0)
	file := parser.ParseFile(eng.Files.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return eng, []*ast.File{file}, bag.Items()
}

func run(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	eng, files, pre := parse(t, src)
	res, err := Run(context.Background(), eng, files, pre, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func count(res *Result, code diag.Code) int {
	n := 0
	for _, d := range res.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

func dump(res *Result) string {
	var sb strings.Builder
	for _, d := range res.Diagnostics {
		sb.WriteString(d.Code.ID())
		sb.WriteString(" ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

const validProgram = `
/// A point.
struct Point<T> { x: T, y: u64 }
enum Color { Red, Value: u64 }
const MAX: u64 = 10;
storage { counter: u64 = 0 }
abi Counter { fn increment(amount: u64) -> u64; }
trait Shape { fn area(self) -> u64; }

impl<T> Point<T> {
    fn new(x: T, y: u64) -> Self { Point { x: x, y: y } }
    fn y(self) -> u64 { self.y }
}

impl Shape for Color {
    fn area(self) -> u64 { 1 }
}

impl Counter for Contract {
    fn increment(amount: u64) -> u64 { storage.counter + amount }
}

fn main() -> u64 {
    let p = Point::new(true, 2);
    let c = Color::Value(3);
    let _d = Color::Red;
    p.y() + c.area() + MAX
}

#[test]
fn test_max() { let _a = MAX; }
`

func TestValidProgram(t *testing.T) {
	res := run(t, validProgram, Options{})
	if !res.OK || len(res.Diagnostics) != 0 {
		t.Fatalf("expected clean run, got:\n%s", dump(res))
	}
	if res.Stage != StageFinished {
		t.Fatalf("stage = %s", res.Stage)
	}
	// Point plus its Point<bool> specialization
	if n := res.Engines.Decls.Count(decl.KindStruct); n != 2 {
		t.Fatalf("struct count = %d", n)
	}
	h, ok := res.Engines.Decls.LookupFunction(res.Engines.Strings.Intern("main"))
	if !ok {
		t.Fatalf("main not found")
	}
	if got := res.Engines.FormatType(res.Engines.Decls.GetFunction(h).Ret); got != "u64" {
		t.Fatalf("main returns %s", got)
	}
}

func TestImplAttachesToStruct(t *testing.T) {
	res := run(t, validProgram, Options{})
	d := res.Engines.Decls
	r, ok := d.Lookup(decl.RootScope, res.Engines.Strings.Intern("Point"))
	if !ok {
		t.Fatalf("Point not declared")
	}
	sh, _ := r.Struct()
	s := d.GetStruct(sh)
	if len(s.Impls) != 1 {
		t.Fatalf("expected one impl, got %d", len(s.Impls))
	}
	im := d.GetImpl(s.Impls[0])
	if len(im.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(im.Members))
	}
	newFn := d.GetFunction(im.Members[0])
	if newFn.Owner != decl.RefImpl(s.Impls[0]) {
		t.Fatalf("owner = %v", newFn.Owner)
	}
	if got := res.Engines.FormatType(newFn.Ret); got != "Point<T>" {
		t.Fatalf("new returns %s", got)
	}
}

func TestIdempotent(t *testing.T) {
	src := `
struct A { x: u64 }
fn f(a: A) -> bool { a.x }
fn g() -> u64 { missing }
fn f() {}
`
	first := run(t, src, Options{})
	second := run(t, src, Options{})
	if first.OK != second.OK {
		t.Fatalf("verdicts differ")
	}
	if !reflect.DeepEqual(first.Diagnostics, second.Diagnostics) {
		t.Fatalf("diagnostics differ:\n%s---\n%s", dump(first), dump(second))
	}
	if first.OK {
		t.Fatalf("expected errors")
	}
}

func TestDuplicateFunction(t *testing.T) {
	src := "fn foo() -> u64 { 1 }\nfn foo() -> bool { true }\n"
	res := run(t, src, Options{})
	if res.OK {
		t.Fatalf("expected errors")
	}
	if n := count(res, diag.SemaDuplicateDeclaration); n != 1 {
		t.Fatalf("DuplicateDeclaration count = %d:\n%s", n, dump(res))
	}
	var dup diag.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Code == diag.SemaDuplicateDeclaration {
			dup = d
		}
	}
	second := uint32(strings.LastIndex(src, "foo"))
	if dup.Primary.Start != second {
		t.Fatalf("duplicate reported at %d, want %d", dup.Primary.Start, second)
	}
	if len(dup.Notes) != 1 || dup.Notes[0].Span.Start != 3 {
		t.Fatalf("note must point at the first foo: %+v", dup.Notes)
	}
	h, ok := res.Engines.Decls.LookupFunction(res.Engines.Strings.Intern("foo"))
	if !ok {
		t.Fatalf("foo not found")
	}
	if fn := res.Engines.Decls.GetFunction(h); fn.NameSpan.Start != 3 {
		t.Fatalf("foo resolves to the declaration at %d", fn.NameSpan.Start)
	}
	if n := res.Engines.Decls.Count(decl.KindFunction); n != 1 {
		t.Fatalf("function count = %d", n)
	}
}

func TestUnresolvedNameReportedOnce(t *testing.T) {
	src := `
fn f() -> u64 {
    let a = missing;
    let b = missing + 1;
    missing + a + b
}
fn g(x: Ghost) -> Ghost { x }
fn h(_y: Ghost) {}
`
	res := run(t, src, Options{})
	if n := count(res, diag.SemaUnresolvedName); n != 2 {
		t.Fatalf("UnresolvedName count = %d, want one per name:\n%s", n, dump(res))
	}
	if res.Errors() != 2 {
		t.Fatalf("expected no derived errors:\n%s", dump(res))
	}
}

func TestIntegerVersusBool(t *testing.T) {
	res := run(t, "fn f() -> bool { 1 }", Options{})
	if res.OK {
		t.Fatalf("expected errors")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.SemaTypeMismatch {
		t.Fatalf("expected a single TypeMismatch:\n%s", dump(res))
	}
	want := "mismatched types: expected `bool`, found `{integer}`"
	if got := res.Diagnostics[0].Message; got != want {
		t.Fatalf("message = %q", got)
	}
}

func TestLiteralDefaultsToU64(t *testing.T) {
	res := run(t, "fn f() -> u64 { let x = 7; x }\nfn g() -> u8 { let y: u8 = 300; y }", Options{})
	if count(res, diag.SemaError) != 1 {
		t.Fatalf("expected one range error:\n%s", dump(res))
	}
	if !strings.Contains(res.Diagnostics[0].Message, "does not fit in `u8`") {
		t.Fatalf("message = %q", res.Diagnostics[0].Message)
	}
}

func TestTraitConformance(t *testing.T) {
	src := `
trait Shape {
    fn area(self) -> u64;
    fn name(self) -> bool;
}
struct Sq { side: u64 }
impl Shape for Sq {
    fn area(self) -> bool { true }
    fn extra(self) {}
}
`
	res := run(t, src, Options{})
	if n := count(res, diag.SemaSignatureMismatch); n != 1 {
		t.Fatalf("SignatureMismatch count = %d:\n%s", n, dump(res))
	}
	if n := count(res, diag.SemaIncompleteImplementation); n != 1 {
		t.Fatalf("IncompleteImplementation count = %d:\n%s", n, dump(res))
	}
	for _, d := range res.Diagnostics {
		switch d.Code {
		case diag.SemaSignatureMismatch:
			if !strings.Contains(d.Message, "expected `fn(self) -> u64`, found `fn(self) -> bool`") {
				t.Fatalf("signature message = %q", d.Message)
			}
		case diag.SemaIncompleteImplementation:
			if !strings.Contains(d.Message, "`name`") {
				t.Fatalf("incomplete message = %q", d.Message)
			}
		}
	}
	if n := count(res, diag.SemaError); n != 1 {
		t.Fatalf("extra member must be reported once:\n%s", dump(res))
	}
}

func TestDisableTestsKeepsVerdict(t *testing.T) {
	src := "fn ok() -> u64 { 1 }\n#[test]\nfn broken() -> u64 { true }\n"
	if res := run(t, src, Options{}); res.OK {
		t.Fatalf("test body must be checked by default")
	}
	if res := run(t, src, Options{DisableTests: true}); !res.OK {
		t.Fatalf("test body must be skipped:\n%s", dump(res))
	}
	bad := "fn bad() -> u64 { false }\n#[test]\nfn t() {}\n"
	if res := run(t, bad, Options{DisableTests: true}); res.OK {
		t.Fatalf("non-test errors must still fail the run")
	}
}

func TestTerseDoesNotChangeCollection(t *testing.T) {
	src := "fn f() -> bool { let unused = 1; 2 }"
	full := run(t, src, Options{})
	terse := run(t, src, Options{Terse: true})
	if full.OK != terse.OK || len(full.Diagnostics) != len(terse.Diagnostics) {
		t.Fatalf("terse changed the result: %d vs %d", len(full.Diagnostics), len(terse.Diagnostics))
	}
	if count(full, diag.SemaUnusedVariable) != 1 {
		t.Fatalf("expected unused warning:\n%s", dump(full))
	}
}

func TestWarningsDoNotFail(t *testing.T) {
	res := run(t, "fn f() { let x = 1; }", Options{})
	if !res.OK {
		t.Fatalf("warnings must not fail the run:\n%s", dump(res))
	}
	if count(res, diag.SemaUnusedVariable) != 1 {
		t.Fatalf("expected one warning:\n%s", dump(res))
	}
}

func TestStructLiteralFields(t *testing.T) {
	src := `
struct P { x: u64, y: bool }
fn f() -> P { P { x: 1, z: 2 } }
`
	res := run(t, src, Options{})
	if count(res, diag.SemaMissingField) != 1 {
		t.Fatalf("expected MissingField:\n%s", dump(res))
	}
	if count(res, diag.SemaUnresolvedName) != 1 {
		t.Fatalf("expected unknown field report:\n%s", dump(res))
	}
}

func TestImmutableAssignment(t *testing.T) {
	src := "fn f() { let x = 1; x = 2; let mut y = 1; y = x + y; }"
	res := run(t, src, Options{})
	if count(res, diag.SemaError) != 1 {
		t.Fatalf("expected one assignment error:\n%s", dump(res))
	}
}

func TestGenericCannotBeInferred(t *testing.T) {
	src := `
struct Box<T> { v: u64 }
fn make<T>() -> Box<T> { Box { v: 1 } }
fn f() { let _b = make(); }
`
	res := run(t, src, Options{})
	if count(res, diag.SemaCannotInferType) == 0 {
		t.Fatalf("expected CannotInferType:\n%s", dump(res))
	}
	if res.OK {
		t.Fatalf("unresolved placeholders must fail the run")
	}
}

func TestCancelledRun(t *testing.T) {
	eng, files, pre := parse(t, validProgram)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, eng, files, pre, Options{})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestDanglingHandleIsInvariantViolation(t *testing.T) {
	eng, files, pre := parse(t, "fn f(_x: Ghost) {}")
	eng.Decls.Declare(decl.RootScope, eng.Strings.Intern("Ghost"), decl.Ref{Kind: decl.KindStruct, Index: 7})
	res, err := Run(context.Background(), eng, files, pre, Options{})
	if !errors.Is(err, ErrInvariant) || res != nil {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
}

func TestSyntaxErrorsCountTowardsVerdict(t *testing.T) {
	res := run(t, "struct A { x: }\nfn ok() {}", Options{})
	if res.OK {
		t.Fatalf("syntax errors must fail the run")
	}
}

func TestParseBuildTarget(t *testing.T) {
	for in, want := range map[string]BuildTarget{"": TargetFuel, "EVM": TargetEVM, "midenvm": TargetMidenVM} {
		got, err := ParseBuildTarget(in)
		if err != nil || got != want {
			t.Fatalf("ParseBuildTarget(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBuildTarget("wasm"); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}

func TestDuplicateMethodAcrossInherentImpls(t *testing.T) {
	src := `
struct S { a: u64 }
impl S { fn f(self) -> u64 { 1 } }
impl S { fn f(self) -> bool { true } }
fn main() -> u64 { let s = S { a: 1 }; s.f() }
`
	res := run(t, src, Options{})
	if res.OK {
		t.Fatalf("expected errors")
	}
	if n := count(res, diag.SemaDuplicateDeclaration); n != 1 || res.Errors() != 1 {
		t.Fatalf("expected a single DuplicateDeclaration:\n%s", dump(res))
	}
	var dup diag.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Code == diag.SemaDuplicateDeclaration {
			dup = d
		}
	}
	second := uint32(strings.LastIndex(src, "fn f") + 3)
	if dup.Primary.Start != second {
		t.Fatalf("duplicate reported at %d, want %d", dup.Primary.Start, second)
	}
	if len(dup.Notes) != 1 || dup.Notes[0].Span.Start != uint32(strings.Index(src, "fn f")+3) {
		t.Fatalf("note must point at the first f: %+v", dup.Notes)
	}
}

func TestTraitImplMayShareInherentName(t *testing.T) {
	src := `
trait Area { fn area(self) -> u64; }
struct S { a: u64 }
impl S { fn area(self) -> u64 { self.a } }
impl Area for S { fn area(self) -> u64 { 2 } }
`
	if res := run(t, src, Options{}); count(res, diag.SemaDuplicateDeclaration) != 0 {
		t.Fatalf("trait members must not clash with inherent ones:\n%s", dump(res))
	}
}

func TestNegationRejected(t *testing.T) {
	res := run(t, "fn f(a: u64) -> u64 { -a }\nfn g() -> u64 { -missing }", Options{})
	if n := count(res, diag.SemaTypeMismatch); n != 1 {
		t.Fatalf("expected one TypeMismatch:\n%s", dump(res))
	}
	for _, d := range res.Diagnostics {
		if d.Code == diag.SemaTypeMismatch && d.Message != "cannot negate unsigned `u64`" {
			t.Fatalf("message = %q", d.Message)
		}
	}
	if res.Errors() != 2 {
		t.Fatalf("error operand must not cascade:\n%s", dump(res))
	}
}
