package ast

import "vela/internal/source"

type Expr interface {
	ExprSpan() source.Span
	exprNode()
}

type IntLit struct {
	Text string
	Span source.Span
}

type BoolLit struct {
	Value bool
	Span  source.Span
}

// StrLit holds the literal as written, quotes included.
type StrLit struct {
	Raw  string
	Span source.Span
}

// PathExpr is `a`, `Color::Red` or `Point::new`.
type PathExpr struct {
	Segments []Ident
	Span     source.Span
}

// SelfExpr is the `self` receiver.
type SelfExpr struct {
	Span source.Span
}

// StorageExpr is the `storage` keyword used as a value root: storage.counter.
type StorageExpr struct {
	Span source.Span
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   source.Span
}

type MethodCallExpr struct {
	Recv   Expr
	Method Ident
	Args   []Expr
	Span   source.Span
}

// FieldExpr is a named field access or, when Field is numeric, a tuple index.
type FieldExpr struct {
	Recv  Expr
	Field Ident
	Span  source.Span
}

type IndexExpr struct {
	X     Expr
	Index Expr
	Span  source.Span
}

// StructLit is `Name { a: x, b: y }`; Name may be Self.
type StructLit struct {
	Name   Ident
	Fields []FieldInit
	Span   source.Span
}

type FieldInit struct {
	Name  Ident
	Value Expr
	Span  source.Span
}

type TupleExpr struct {
	Elems []Expr
	Span  source.Span
}

type ArrayExpr struct {
	Elems []Expr
	Span  source.Span
}

type UnaryExpr struct {
	Op   UnaryOp
	X    Expr
	Span source.Span
}

type BinaryExpr struct {
	Op   BinaryOp
	X, Y Expr
	Span source.Span
}

// IfExpr has an Else that is nil, a *BlockExpr or another *IfExpr.
type IfExpr struct {
	Cond Expr
	Then *Block
	Else Expr
	Span source.Span
}

type BlockExpr struct {
	Block *Block
}

// ParenExpr preserves grouping for span reporting.
type ParenExpr struct {
	X    Expr
	Span source.Span
}

func (e *IntLit) ExprSpan() source.Span         { return e.Span }
func (e *BoolLit) ExprSpan() source.Span        { return e.Span }
func (e *StrLit) ExprSpan() source.Span         { return e.Span }
func (e *PathExpr) ExprSpan() source.Span       { return e.Span }
func (e *SelfExpr) ExprSpan() source.Span       { return e.Span }
func (e *StorageExpr) ExprSpan() source.Span    { return e.Span }
func (e *CallExpr) ExprSpan() source.Span       { return e.Span }
func (e *MethodCallExpr) ExprSpan() source.Span { return e.Span }
func (e *FieldExpr) ExprSpan() source.Span      { return e.Span }
func (e *IndexExpr) ExprSpan() source.Span      { return e.Span }
func (e *StructLit) ExprSpan() source.Span      { return e.Span }
func (e *TupleExpr) ExprSpan() source.Span      { return e.Span }
func (e *ArrayExpr) ExprSpan() source.Span      { return e.Span }
func (e *UnaryExpr) ExprSpan() source.Span      { return e.Span }
func (e *BinaryExpr) ExprSpan() source.Span     { return e.Span }
func (e *IfExpr) ExprSpan() source.Span         { return e.Span }
func (e *BlockExpr) ExprSpan() source.Span      { return e.Block.Span }
func (e *ParenExpr) ExprSpan() source.Span      { return e.Span }

func (*IntLit) exprNode()         {}
func (*BoolLit) exprNode()        {}
func (*StrLit) exprNode()         {}
func (*PathExpr) exprNode()       {}
func (*SelfExpr) exprNode()       {}
func (*StorageExpr) exprNode()    {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*StructLit) exprNode()      {}
func (*TupleExpr) exprNode()      {}
func (*ArrayExpr) exprNode()      {}
func (*UnaryExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*IfExpr) exprNode()         {}
func (*BlockExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
