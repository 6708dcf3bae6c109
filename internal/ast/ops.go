package ast

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota + 1
	UnaryNot
	UnaryRef
	UnaryRefMut
	UnaryDeref
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryRef:
		return "&"
	case UnaryRefMut:
		return "&mut"
	case UnaryDeref:
		return "*"
	}
	return "?"
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota + 1
	BinSub
	BinMul
	BinDiv
	BinRem
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

var binaryOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%",
	BinEq: "==", BinNe: "!=", BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
	BinAnd: "&&", BinOr: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) && binaryOpText[op] != "" {
		return binaryOpText[op]
	}
	return "?"
}

// IsArithmetic reports + - * / %.
func (op BinaryOp) IsArithmetic() bool { return op >= BinAdd && op <= BinRem }

// IsComparison reports == != < <= > >=.
func (op BinaryOp) IsComparison() bool { return op >= BinEq && op <= BinGe }

// IsLogical reports && and ||.
func (op BinaryOp) IsLogical() bool { return op == BinAnd || op == BinOr }
