package parser

import (
	"vela/internal/ast"
	"vela/internal/token"
)

// Higher binds tighter. All binary operators are left-associative.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

func binaryOp(kind token.Kind) (ast.BinaryOp, int) {
	switch kind {
	case token.OrOr:
		return ast.BinOr, precLogicalOr
	case token.AndAnd:
		return ast.BinAnd, precLogicalAnd
	case token.EqEq:
		return ast.BinEq, precEquality
	case token.BangEq:
		return ast.BinNe, precEquality
	case token.Lt:
		return ast.BinLt, precComparison
	case token.LtEq:
		return ast.BinLe, precComparison
	case token.Gt:
		return ast.BinGt, precComparison
	case token.GtEq:
		return ast.BinGe, precComparison
	case token.Plus:
		return ast.BinAdd, precAdditive
	case token.Minus:
		return ast.BinSub, precAdditive
	case token.Star:
		return ast.BinMul, precMultiplicative
	case token.Slash:
		return ast.BinDiv, precMultiplicative
	case token.Percent:
		return ast.BinRem, precMultiplicative
	}
	return 0, -1
}
