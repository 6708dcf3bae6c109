package codeaction

import (
	"vela/internal/decl"
	"vela/internal/engines"
	"vela/internal/source"
)

// ForDecl dispatches on the kind of r. Structs get all three suggestions;
// enums, functions, traits, abis and constants a doc template; other kinds
// nothing.
func ForDecl(eng *engines.Engines, r decl.Ref) []Action {
	switch r.Kind {
	case decl.KindStruct:
		h, _ := r.Struct()
		return ForStruct(eng, h)
	case decl.KindEnum, decl.KindFunction, decl.KindTrait, decl.KindAbi, decl.KindConstant:
		if a, ok := DocComment(eng, r); ok {
			return []Action{a}
		}
	}
	return nil
}

// At finds the innermost source declaration of file whose span covers off.
// Specializations are skipped; they share the span of their origin.
func At(eng *engines.Engines, file source.FileID, off uint32) (decl.Ref, bool) {
	var best decl.Ref
	var bestLen uint32
	found := false
	for _, r := range eng.Decls.Refs() {
		sum := eng.Decls.Describe(r)
		if sum.Specialized || sum.Span.File != file || !sum.Span.Contains(file, off) {
			continue
		}
		if !found || sum.Span.Len() < bestLen {
			best, bestLen, found = r, sum.Span.Len(), true
		}
	}
	return best, found
}
