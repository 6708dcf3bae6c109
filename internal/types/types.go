package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindError is the sentinel produced after a reported error; it unifies
	// with everything silently.
	KindError
	// KindNever is the type of diverging blocks (return).
	KindNever
	KindUnit
	KindBool
	KindUint
	KindStr
	KindB256
	// KindContract is the implicit implementor of abi declarations.
	KindContract
	KindStruct
	KindEnum
	KindGeneric
	KindTuple
	KindArray
	KindRef
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindNever:
		return "never"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindStr:
		return "str"
	case KindB256:
		return "b256"
	case KindContract:
		return "contract"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindGeneric:
		return "generic"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	case KindRef:
		return "reference"
	case KindPlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width is the bit size of unsigned integers.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// ListID identifies an interned list of TypeIDs; 0 is the empty list.
type ListID uint32

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Width   Width  // uint
	Elem    TypeID // array, reference
	Count   uint64 // array length
	Mutable bool   // reference
	Decl    uint32 // struct, enum: declaration index
	Args    ListID // struct, enum: type arguments; tuple: elements
	Index   uint32 // generic parameter or placeholder number
}

// PlaceholderClass restricts what a placeholder may be bound to.
type PlaceholderClass uint8

const (
	ClassAny PlaceholderClass = iota
	// ClassInt is the type of an integer literal before inference: it only
	// accepts unsigned integer types.
	ClassInt
)
