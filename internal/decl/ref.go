package decl

import (
	"fmt"

	"vela/internal/arena"
)

type (
	StructHandle   = arena.Handle[Struct]
	EnumHandle     = arena.Handle[Enum]
	FunctionHandle = arena.Handle[Function]
	TraitHandle    = arena.Handle[Trait]
	ImplHandle     = arena.Handle[Impl]
	ConstantHandle = arena.Handle[Constant]
	StorageHandle  = arena.Handle[Storage]
	AbiHandle      = arena.Handle[Abi]
)

// Kind tags the variant held by a Ref.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindStruct
	KindEnum
	KindFunction
	KindTrait
	KindImpl
	KindConstant
	KindStorage
	KindAbi
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindTrait:
		return "trait"
	case KindImpl:
		return "impl"
	case KindConstant:
		return "constant"
	case KindStorage:
		return "storage"
	case KindAbi:
		return "abi"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Ref is a handle to a declaration of any kind. The zero Ref is invalid.
type Ref struct {
	Kind  Kind
	Index uint32
}

func (r Ref) IsValid() bool { return r.Kind != KindInvalid && r.Index != 0 }

func (r Ref) String() string { return fmt.Sprintf("%s#%d", r.Kind, r.Index) }

func RefStruct(h StructHandle) Ref     { return Ref{Kind: KindStruct, Index: h.Index()} }
func RefEnum(h EnumHandle) Ref         { return Ref{Kind: KindEnum, Index: h.Index()} }
func RefFunction(h FunctionHandle) Ref { return Ref{Kind: KindFunction, Index: h.Index()} }
func RefTrait(h TraitHandle) Ref       { return Ref{Kind: KindTrait, Index: h.Index()} }
func RefImpl(h ImplHandle) Ref         { return Ref{Kind: KindImpl, Index: h.Index()} }
func RefConstant(h ConstantHandle) Ref { return Ref{Kind: KindConstant, Index: h.Index()} }
func RefStorage(h StorageHandle) Ref   { return Ref{Kind: KindStorage, Index: h.Index()} }
func RefAbi(h AbiHandle) Ref           { return Ref{Kind: KindAbi, Index: h.Index()} }

// The accessors below report false when the Ref holds another kind.

func (r Ref) Struct() (StructHandle, bool) {
	return StructHandle(r.Index), r.Kind == KindStruct
}

func (r Ref) Enum() (EnumHandle, bool) {
	return EnumHandle(r.Index), r.Kind == KindEnum
}

func (r Ref) Function() (FunctionHandle, bool) {
	return FunctionHandle(r.Index), r.Kind == KindFunction
}

func (r Ref) Trait() (TraitHandle, bool) {
	return TraitHandle(r.Index), r.Kind == KindTrait
}

func (r Ref) Impl() (ImplHandle, bool) {
	return ImplHandle(r.Index), r.Kind == KindImpl
}

func (r Ref) Constant() (ConstantHandle, bool) {
	return ConstantHandle(r.Index), r.Kind == KindConstant
}

func (r Ref) Storage() (StorageHandle, bool) {
	return StorageHandle(r.Index), r.Kind == KindStorage
}

func (r Ref) Abi() (AbiHandle, bool) {
	return AbiHandle(r.Index), r.Kind == KindAbi
}
