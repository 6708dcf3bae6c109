package ast

import "vela/internal/source"

// Item is a top-level declaration. The set of implementations is closed.
type Item interface {
	Header() *ItemHeader
	itemNode()
}

// ItemHeader carries what every item has regardless of its kind.
type ItemHeader struct {
	Doc   []string
	Attrs []Attr
	Pub   bool
	Span  source.Span
}

func (h *ItemHeader) Header() *ItemHeader { return h }

// HasAttr reports whether an attribute with the given name is present.
func (h *ItemHeader) HasAttr(name string) bool {
	for _, a := range h.Attrs {
		if a.Name.Name == name {
			return true
		}
	}
	return false
}

type StructItem struct {
	ItemHeader
	Name     Ident
	Generics []Ident
	Fields   []Field
}

type Field struct {
	Name Ident
	Type TypeExpr
	Span source.Span
}

type EnumItem struct {
	ItemHeader
	Name     Ident
	Generics []Ident
	Variants []Variant
}

// Variant has a nil Type for the unit payload.
type Variant struct {
	Name Ident
	Type TypeExpr
	Span source.Span
}

// FnSig is a function signature; Ret is nil for the unit return type.
type FnSig struct {
	Name     Ident
	Generics []Ident
	Params   []Param
	Ret      TypeExpr
	Span     source.Span
}

// Param is a function parameter. A receiver (self, &self, &mut self) has
// IsSelf set and a nil Type.
type Param struct {
	Name   Ident
	Type   TypeExpr
	IsSelf bool
	Ref    bool
	Mut    bool
	Span   source.Span
}

type FnItem struct {
	ItemHeader
	Sig  FnSig
	Body *Block
}

// TraitItem lists required signatures and methods with default bodies.
type TraitItem struct {
	ItemHeader
	Name     Ident
	Required []FnSig
	Provided []*FnItem
}

// ImplItem is `impl<G> [Trait for] Target { fns }`.
type ImplItem struct {
	ItemHeader
	Generics []Ident
	Trait    *PathType
	Target   TypeExpr
	Fns      []*FnItem
}

type ConstItem struct {
	ItemHeader
	Name  Ident
	Type  TypeExpr
	Value Expr
}

type StorageItem struct {
	ItemHeader
	Fields []StorageField
}

type StorageField struct {
	Name Ident
	Type TypeExpr
	Init Expr
	Span source.Span
}

type AbiItem struct {
	ItemHeader
	Name    Ident
	Methods []FnSig
}

func (*StructItem) itemNode()  {}
func (*EnumItem) itemNode()    {}
func (*FnItem) itemNode()      {}
func (*TraitItem) itemNode()   {}
func (*ImplItem) itemNode()    {}
func (*ConstItem) itemNode()   {}
func (*StorageItem) itemNode() {}
func (*AbiItem) itemNode()     {}
