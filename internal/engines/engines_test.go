package engines

import (
	"testing"

	"vela/internal/decl"
)

func TestEnginesShareInterners(t *testing.T) {
	eng := New(nil)
	if eng.TE() != eng.Types || eng.DE() != eng.Decls || eng.Files == nil {
		t.Fatalf("accessors must return the owned engines")
	}
	name := eng.Strings.Intern("Point")
	h := eng.Decls.InsertStruct(decl.Struct{Common: decl.Common{Name: name}})
	ty := eng.Types.Struct(h.Index(), nil)
	if got := eng.FormatType(ty); got != "Point" {
		t.Fatalf("FormatType = %q", got)
	}
	if eng.Name(name) != "Point" {
		t.Fatalf("Name = %q", eng.Name(name))
	}
}
