package decl

import (
	"vela/internal/ast"
	"vela/internal/source"
	"vela/internal/types"
)

// Common is shared by every named declaration.
type Common struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Doc      []string
	Pub      bool
}

type Field struct {
	Name source.StringID
	Span source.Span
	Type types.TypeID
}

type Struct struct {
	Common
	Generics []types.TypeID
	Fields   []Field
	// Impls attached to this struct, inherent and trait impls alike.
	Impls []ImplHandle
	// Type is the struct applied to its own generics (or to Args for a
	// specialization).
	Type types.TypeID
	// Origin is set on specializations; Args are the concrete arguments.
	Origin StructHandle
	Args   []types.TypeID
}

// FieldIndex returns the position of the named field or -1.
func (s *Struct) FieldIndex(name source.StringID) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Variant has the unit type when declared without payload.
type Variant struct {
	Name source.StringID
	Span source.Span
	Type types.TypeID
}

type Enum struct {
	Common
	Generics []types.TypeID
	Variants []Variant
	Impls    []ImplHandle
	Type     types.TypeID
	Origin   EnumHandle
	Args     []types.TypeID
}

func (e *Enum) VariantIndex(name source.StringID) int {
	for i := range e.Variants {
		if e.Variants[i].Name == name {
			return i
		}
	}
	return -1
}

type Param struct {
	Name   source.StringID
	Span   source.Span
	Type   types.TypeID
	Mut    bool
	IsSelf bool
}

type Function struct {
	Common
	Generics []types.TypeID
	Params   []Param
	Ret      types.TypeID
	// RetSpan is empty when the return type was omitted.
	RetSpan source.Span
	// Body is nil for trait and abi signatures.
	Body *ast.Block
	Test bool
	// Owner is the enclosing impl, trait or abi; zero for free functions.
	Owner  Ref
	Origin FunctionHandle
	Args   []types.TypeID
}

// HasSelf reports whether the function takes a receiver.
func (f *Function) HasSelf() bool {
	return len(f.Params) > 0 && f.Params[0].IsSelf
}

type Trait struct {
	Common
	Required []FunctionHandle
	Provided []FunctionHandle
}

type Abi struct {
	Common
	Methods []FunctionHandle
}

// Impl is `impl [Trait for] Target`. Trait is zero for inherent impls and
// refers to a trait or an abi otherwise.
type Impl struct {
	Span       source.Span
	Generics   []types.TypeID
	Trait      Ref
	TraitName  source.StringID
	TraitSpan  source.Span
	Target     types.TypeID
	TargetSpan source.Span
	Members    []FunctionHandle
}

type Constant struct {
	Common
	Type  types.TypeID
	Value ast.Expr
}

type StorageField struct {
	Name source.StringID
	Span source.Span
	Type types.TypeID
	Init ast.Expr
}

type Storage struct {
	Span   source.Span
	Fields []StorageField
}

func (s *Storage) FieldIndex(name source.StringID) int {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return i
		}
	}
	return -1
}
