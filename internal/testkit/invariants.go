// Package testkit holds assertions shared by parser and checker tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"vela/internal/ast"
	"vela/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed file:
// every item span is non-empty, points at sf, lies inside the content and
// inside file.Span, and items appear in source order without overlapping.
func CheckSpanInvariants(file *ast.File, sf *source.File) error {
	if file == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	if file.Span.File != sf.ID {
		return fmt.Errorf("file span points to file %d, want %d", file.Span.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}
	if file.Span.End > size {
		return fmt.Errorf("file span end beyond content: %d > %d", file.Span.End, size)
	}
	var prevEnd uint32
	for i, it := range file.Items {
		sp := it.Header().Span
		switch {
		case sp.End <= sp.Start:
			return fmt.Errorf("item %d has empty span %v", i, sp)
		case sp.File != sf.ID:
			return fmt.Errorf("item %d span points to file %d, want %d", i, sp.File, sf.ID)
		case sp.Start < file.Span.Start || sp.End > file.Span.End:
			return fmt.Errorf("item %d span %v is outside file span %v", i, sp, file.Span)
		case i > 0 && sp.Start < prevEnd:
			return fmt.Errorf("item %d span %v overlaps the previous item ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}
	return nil
}
