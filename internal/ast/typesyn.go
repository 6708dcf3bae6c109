package ast

import "vela/internal/source"

// TypeExpr is a type as written in source.
type TypeExpr interface {
	TypeSpan() source.Span
	typeNode()
}

// PathType is a named type with optional arguments: u64, Point<T>, Option<u8>.
type PathType struct {
	Name Ident
	Args []TypeExpr
	Span source.Span
}

// TupleType with no elements is the unit type ().
type TupleType struct {
	Elems []TypeExpr
	Span  source.Span
}

type ArrayType struct {
	Elem TypeExpr
	Len  uint64
	Span source.Span
}

type RefType struct {
	Mut  bool
	Elem TypeExpr
	Span source.Span
}

type SelfType struct {
	Span source.Span
}

func (t *PathType) TypeSpan() source.Span  { return t.Span }
func (t *TupleType) TypeSpan() source.Span { return t.Span }
func (t *ArrayType) TypeSpan() source.Span { return t.Span }
func (t *RefType) TypeSpan() source.Span   { return t.Span }
func (t *SelfType) TypeSpan() source.Span  { return t.Span }

func (*PathType) typeNode()  {}
func (*TupleType) typeNode() {}
func (*ArrayType) typeNode() {}
func (*RefType) typeNode()   {}
func (*SelfType) typeNode()  {}
