// Package engines bundles the interners and declaration storage of one
// compilation session.
package engines

import (
	"vela/internal/decl"
	"vela/internal/source"
	"vela/internal/types"
)

// Engines is created once per batch run or analysis pass and passed by
// pointer; it must not be copied or shared between concurrent runs.
type Engines struct {
	Types   *types.Interner
	Decls   *decl.Engine
	Strings *source.Interner
	Files   *source.FileSet
}

// New creates empty engines over fs. A nil fs allocates a fresh set.
func New(fs *source.FileSet) *Engines {
	if fs == nil {
		fs = source.NewFileSet()
	}
	ti := types.NewInterner()
	si := source.NewInterner()
	return &Engines{
		Types:   ti,
		Decls:   decl.NewEngine(ti, si),
		Strings: si,
		Files:   fs,
	}
}

// TE returns the type engine.
func (e *Engines) TE() *types.Interner { return e.Types }

// DE returns the declaration engine.
func (e *Engines) DE() *decl.Engine { return e.Decls }

// Name returns the interned string for id.
func (e *Engines) Name(id source.StringID) string {
	return e.Strings.MustLookup(id)
}

// FormatType renders id with declaration names.
func (e *Engines) FormatType(id types.TypeID) string {
	return e.Types.Format(id, e.Decls)
}
