package ast

import "vela/internal/source"

type Stmt interface {
	StmtSpan() source.Span
	stmtNode()
}

// Block is `{ stmts; tail }`. Tail is nil when the block ends with a
// statement; the block then has the unit type.
type Block struct {
	Stmts []Stmt
	Tail  Expr
	Span  source.Span
}

type LetStmt struct {
	Name  Ident
	Mut   bool
	Type  TypeExpr
	Value Expr
	Span  source.Span
}

type ExprStmt struct {
	X    Expr
	Span source.Span
}

type AssignStmt struct {
	Target Expr
	Value  Expr
	Span   source.Span
}

// ReturnStmt has a nil Value for a bare `return;`.
type ReturnStmt struct {
	Value Expr
	Span  source.Span
}

func (s *LetStmt) StmtSpan() source.Span    { return s.Span }
func (s *ExprStmt) StmtSpan() source.Span   { return s.Span }
func (s *AssignStmt) StmtSpan() source.Span { return s.Span }
func (s *ReturnStmt) StmtSpan() source.Span { return s.Span }

func (*LetStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
