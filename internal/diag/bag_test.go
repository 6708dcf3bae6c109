package diag

import (
	"testing"

	"vela/internal/source"
)

func TestBagUnlimitedByDefault(t *testing.T) {
	bag := NewBag(0)
	for i := 0; i < 500; i++ {
		if !bag.Add(NewError(SemaTypeMismatch, source.Span{}, "x")) {
			t.Fatalf("unlimited bag rejected item %d", i)
		}
	}
	if bag.Len() != 500 {
		t.Fatalf("len = %d", bag.Len())
	}
}

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	bag.Add(New(SevWarning, SemaUnusedVariable, source.Span{}, "unused"))
	if bag.HasErrors() {
		t.Fatalf("warnings are not errors")
	}
	bag.Add(NewError(SemaTypeMismatch, source.Span{}, "mismatch"))
	if bag.Add(NewError(SemaTypeMismatch, source.Span{}, "dropped")) {
		t.Fatalf("limit must be enforced")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both severities")
	}
	if bag.Count(SevError) != 1 || bag.Count(SevWarning) != 1 {
		t.Fatalf("unexpected counts")
	}
	drained := bag.Drain()
	if len(drained) != 2 || bag.Len() != 0 {
		t.Fatalf("drain must move items out")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 10, End: 12}, "b"))
	bag.Add(New(SevWarning, SemaUnusedVariable, source.Span{File: 0, Start: 5, End: 6}, "a"))
	bag.Add(NewError(SemaUnresolvedName, source.Span{File: 0, Start: 5, End: 6}, "c"))
	bag.Sort()
	items := bag.Items()
	if items[0].Code != SemaUnresolvedName || items[1].Code != SemaUnusedVariable || items[2].Primary.File != 1 {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	bag := NewBag(0)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{Start: 1, End: 3}
	for i := 0; i < 3; i++ {
		ReportError(rep, SemaUnresolvedName, span, "cannot find `x`").Emit()
	}
	ReportError(rep, SemaUnresolvedName, span, "cannot find `y`").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 distinct diagnostics, got %d", bag.Len())
	}
	if rep.Suppressed() != 2 {
		t.Fatalf("suppressed = %d", rep.Suppressed())
	}
}

func TestCodeRendering(t *testing.T) {
	if got := SemaDuplicateDeclaration.ID(); got != "SEM3002" {
		t.Fatalf("id = %s", got)
	}
	if got := SemaTypeMismatch.String(); got != "[SEM3015]: TypeMismatch" {
		t.Fatalf("string = %s", got)
	}
}
