package parser_test

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/parser"
	"vela/internal/source"
	"vela/internal/testkit"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	f, bag, _ := parseSource(t, src)
	return f, bag
}

func parseSource(t *testing.T, src string) (*ast.File, *diag.Bag, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.vl", []byte(src))
	bag := diag.NewBag(0)
	f := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return f, bag, fs.Get(id)
}

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, bag, sf := parseSource(t, src)
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Errorf("%s: %s", d.Code, d.Message)
		}
		t.FailNow()
	}
	if err := testkit.CheckSpanInvariants(f, sf); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return f
}

const sample = `
/// A point.
struct Point<T> { x: T, y: u64 }
enum Color { Red: (), Value: u64, Blue }
const MAX: u64 = 10;
storage { counter: u64 = 0 }
abi Counter {
    #[storage(read, write)]
    fn increment(amount: u64) -> u64;
}
trait Shape { fn area(self) -> u64; fn twice(self) -> u64 { self.area() * 2 } }
impl<T> Point<T> {
    fn new(x: T, y: u64) -> Self { Point { x: x, y } }
    fn y(&self) -> u64 { self.y }
}
impl Counter for Contract {
    fn increment(amount: u64) -> u64 { storage.counter + amount }
}
#[test]
fn test_max() {
    let mut a = MAX;
    a = a + 1;
    let t: (u64, bool) = (1, true);
    let arr: [u8; 2] = [1, 2];
    if t.1 { return; } else { a = t.0; }
}
`

func TestParseAllItemKinds(t *testing.T) {
	f := mustParse(t, sample)
	if len(f.Items) != 9 {
		t.Fatalf("expected 9 items, got %d", len(f.Items))
	}
	st, ok := f.Items[0].(*ast.StructItem)
	if !ok || st.Name.Name != "Point" || len(st.Generics) != 1 || len(st.Fields) != 2 {
		t.Fatalf("bad struct %+v", f.Items[0])
	}
	if len(st.Doc) != 1 || st.Doc[0] != "A point." {
		t.Fatalf("doc = %q", st.Doc)
	}
	en := f.Items[1].(*ast.EnumItem)
	if len(en.Variants) != 3 || en.Variants[2].Type != nil {
		t.Fatalf("bad enum %+v", en)
	}
	abi := f.Items[4].(*ast.AbiItem)
	if len(abi.Methods) != 1 || abi.Methods[0].Name.Name != "increment" {
		t.Fatalf("bad abi %+v", abi)
	}
	tr := f.Items[5].(*ast.TraitItem)
	if len(tr.Required) != 1 || len(tr.Provided) != 1 {
		t.Fatalf("bad trait %+v", tr)
	}
	impl := f.Items[6].(*ast.ImplItem)
	if impl.Trait != nil || len(impl.Fns) != 2 || !impl.Fns[1].Sig.Params[0].IsSelf || !impl.Fns[1].Sig.Params[0].Ref {
		t.Fatalf("bad inherent impl %+v", impl)
	}
	lit, ok := impl.Fns[0].Body.Tail.(*ast.StructLit)
	if !ok || len(lit.Fields) != 2 {
		t.Fatalf("constructor body should be a struct literal, got %T", impl.Fns[0].Body.Tail)
	}
	abiImpl := f.Items[7].(*ast.ImplItem)
	if abiImpl.Trait == nil || abiImpl.Trait.Name.Name != "Counter" {
		t.Fatalf("bad abi impl %+v", abiImpl)
	}
	test := f.Items[8].(*ast.FnItem)
	if !test.HasAttr("test") || len(test.Body.Stmts) != 4 {
		t.Fatalf("bad test fn: attrs=%v stmts=%d", test.Attrs, len(test.Body.Stmts))
	}
	if _, ok := test.Body.Tail.(*ast.IfExpr); !ok {
		t.Fatalf("trailing if should be the block value, got %T", test.Body.Tail)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	f := mustParse(t, "fn f() -> bool { 1 + 2 * 3 == 7 && true }")
	body := f.Items[0].(*ast.FnItem).Body
	and, ok := body.Tail.(*ast.BinaryExpr)
	if !ok || and.Op != ast.BinAnd {
		t.Fatalf("top should be &&, got %#v", body.Tail)
	}
	eq := and.X.(*ast.BinaryExpr)
	if eq.Op != ast.BinEq {
		t.Fatalf("want ==, got %s", eq.Op)
	}
	add := eq.X.(*ast.BinaryExpr)
	if add.Op != ast.BinAdd || add.Y.(*ast.BinaryExpr).Op != ast.BinMul {
		t.Fatalf("multiplication must bind tighter than addition")
	}
}

func TestIfConditionIsNotStructLiteral(t *testing.T) {
	f := mustParse(t, "fn f(Flag: bool) -> u64 { if Flag { 1 } else { 2 } }")
	body := f.Items[0].(*ast.FnItem).Body
	ife, ok := body.Tail.(*ast.IfExpr)
	if !ok {
		t.Fatalf("tail = %T", body.Tail)
	}
	if _, ok := ife.Cond.(*ast.PathExpr); !ok {
		t.Fatalf("condition = %T", ife.Cond)
	}
}

func TestRecoversAtNextItem(t *testing.T) {
	f, bag := parse(t, "struct A { x: }\nfn ok() {}\nlet x = 1;\nstruct B {}")
	if bag.Len() == 0 {
		t.Fatalf("expected syntax errors")
	}
	var names []string
	for _, it := range f.Items {
		switch it := it.(type) {
		case *ast.FnItem:
			names = append(names, it.Sig.Name.Name)
		case *ast.StructItem:
			names = append(names, it.Name.Name)
		}
	}
	if len(names) != 2 || names[0] != "ok" || names[1] != "B" {
		t.Fatalf("recovered items = %v", names)
	}
	if got := bag.Items()[0].Code; got != diag.SynExpectType {
		t.Fatalf("first error = %s", got)
	}
}

func TestStatementErrorKeepsFunction(t *testing.T) {
	f, bag := parse(t, "fn f() { let = 1; let y = 2; }")
	if bag.Len() != 1 {
		t.Fatalf("expected one error, got %d", bag.Len())
	}
	fn := f.Items[0].(*ast.FnItem)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected the valid let to survive, got %d stmts", len(fn.Body.Stmts))
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.vl", []byte("fn 1 fn 2 fn 3 fn 4"))
	bag := diag.NewBag(0)
	parser.ParseFile(fs.Get(id), parser.Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 2 {
		t.Fatalf("expected 2 reported errors, got %d", bag.Len())
	}
}

func TestAttributeAcceptsKeywords(t *testing.T) {
	f := mustParse(t, "abi C { #[storage(read)] fn get() -> u64; }\n#[storage(read, write)]\nfn bump() {}\n")
	if len(f.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(f.Items))
	}
	abi, ok := f.Items[0].(*ast.AbiItem)
	if !ok || len(abi.Methods) != 1 || abi.Methods[0].Name.Name != "get" {
		t.Fatalf("bad abi %+v", f.Items[0])
	}
	fn := f.Items[1].(*ast.FnItem)
	if len(fn.Attrs) != 1 || fn.Attrs[0].Name.Name != "storage" || len(fn.Attrs[0].Args) != 2 || fn.Attrs[0].Args[1].Name != "write" {
		t.Fatalf("attrs = %+v", fn.Attrs)
	}
}
