package decl

import (
	"vela/internal/arena"
	"vela/internal/source"
	"vela/internal/types"
)

// Engine stores the declarations of one Engines instance.
type Engine struct {
	structs   *arena.Arena[Struct]
	enums     *arena.Arena[Enum]
	functions *arena.Arena[Function]
	traits    *arena.Arena[Trait]
	impls     *arena.Arena[Impl]
	constants *arena.Arena[Constant]
	storages  *arena.Arena[Storage]
	abis      *arena.Arena[Abi]

	types   *types.Interner
	strings *source.Interner

	order []Ref
	index map[scopedName]Ref
	mono  map[monoKey]uint32
}

// NewEngine creates an empty engine bound to the shared type and string
// interners.
func NewEngine(ti *types.Interner, strings *source.Interner) *Engine {
	return &Engine{
		structs:   arena.New[Struct]("struct", 0),
		enums:     arena.New[Enum]("enum", 0),
		functions: arena.New[Function]("function", 0),
		traits:    arena.New[Trait]("trait", 0),
		impls:     arena.New[Impl]("impl", 0),
		constants: arena.New[Constant]("constant", 0),
		storages:  arena.New[Storage]("storage", 0),
		abis:      arena.New[Abi]("abi", 0),
		types:     ti,
		strings:   strings,
		index:     make(map[scopedName]Ref),
		mono:      make(map[monoKey]uint32),
	}
}

func (e *Engine) InsertStruct(s Struct) StructHandle {
	h := e.structs.Insert(s)
	e.order = append(e.order, RefStruct(h))
	return h
}

func (e *Engine) InsertEnum(v Enum) EnumHandle {
	h := e.enums.Insert(v)
	e.order = append(e.order, RefEnum(h))
	return h
}

func (e *Engine) InsertFunction(f Function) FunctionHandle {
	h := e.functions.Insert(f)
	e.order = append(e.order, RefFunction(h))
	return h
}

func (e *Engine) InsertTrait(t Trait) TraitHandle {
	h := e.traits.Insert(t)
	e.order = append(e.order, RefTrait(h))
	return h
}

func (e *Engine) InsertImpl(i Impl) ImplHandle {
	h := e.impls.Insert(i)
	e.order = append(e.order, RefImpl(h))
	return h
}

func (e *Engine) InsertConstant(c Constant) ConstantHandle {
	h := e.constants.Insert(c)
	e.order = append(e.order, RefConstant(h))
	return h
}

func (e *Engine) InsertStorage(s Storage) StorageHandle {
	h := e.storages.Insert(s)
	e.order = append(e.order, RefStorage(h))
	return h
}

func (e *Engine) InsertAbi(a Abi) AbiHandle {
	h := e.abis.Insert(a)
	e.order = append(e.order, RefAbi(h))
	return h
}

// Get* panic with *arena.InvariantViolation on handles this engine did not
// issue. The returned pointers are invalidated by the next insert of the
// same kind.

func (e *Engine) GetStruct(h StructHandle) *Struct       { return e.structs.Get(h) }
func (e *Engine) GetEnum(h EnumHandle) *Enum             { return e.enums.Get(h) }
func (e *Engine) GetFunction(h FunctionHandle) *Function { return e.functions.Get(h) }
func (e *Engine) GetTrait(h TraitHandle) *Trait          { return e.traits.Get(h) }
func (e *Engine) GetImpl(h ImplHandle) *Impl             { return e.impls.Get(h) }
func (e *Engine) GetConstant(h ConstantHandle) *Constant { return e.constants.Get(h) }
func (e *Engine) GetStorage(h StorageHandle) *Storage    { return e.storages.Get(h) }
func (e *Engine) GetAbi(h AbiHandle) *Abi                { return e.abis.Get(h) }

func (e *Engine) ReplaceStruct(h StructHandle, s Struct)       { e.structs.Replace(h, s) }
func (e *Engine) ReplaceEnum(h EnumHandle, v Enum)             { e.enums.Replace(h, v) }
func (e *Engine) ReplaceFunction(h FunctionHandle, f Function) { e.functions.Replace(h, f) }
func (e *Engine) ReplaceTrait(h TraitHandle, t Trait)          { e.traits.Replace(h, t) }
func (e *Engine) ReplaceImpl(h ImplHandle, i Impl)             { e.impls.Replace(h, i) }
func (e *Engine) ReplaceConstant(h ConstantHandle, c Constant) { e.constants.Replace(h, c) }
func (e *Engine) ReplaceStorage(h StorageHandle, s Storage)    { e.storages.Replace(h, s) }
func (e *Engine) ReplaceAbi(h AbiHandle, a Abi)                { e.abis.Replace(h, a) }

// Refs lists every declaration in insertion order, specializations included.
func (e *Engine) Refs() []Ref {
	return e.order
}

// Count returns the number of stored declarations of kind k.
func (e *Engine) Count(k Kind) int {
	switch k {
	case KindStruct:
		return e.structs.Len()
	case KindEnum:
		return e.enums.Len()
	case KindFunction:
		return e.functions.Len()
	case KindTrait:
		return e.traits.Len()
	case KindImpl:
		return e.impls.Len()
	case KindConstant:
		return e.constants.Len()
	case KindStorage:
		return e.storages.Len()
	case KindAbi:
		return e.abis.Len()
	}
	return 0
}

// Summary is the kind-independent view of a declaration.
type Summary struct {
	Ref      Ref
	Name     string
	NameSpan source.Span
	Span     source.Span
	Doc      []string
	// Owner is the enclosing declaration of a member function.
	Owner Ref
	// Specialized is set on monomorphized copies.
	Specialized bool
}

// Describe returns the Summary of r.
func (e *Engine) Describe(r Ref) Summary {
	sum := Summary{Ref: r}
	fill := func(c *Common) {
		sum.Name = e.strings.MustLookup(c.Name)
		sum.NameSpan = c.NameSpan
		sum.Span = c.Span
		sum.Doc = c.Doc
	}
	switch r.Kind {
	case KindStruct:
		s := e.GetStruct(StructHandle(r.Index))
		fill(&s.Common)
		sum.Specialized = s.Origin.IsValid()
	case KindEnum:
		v := e.GetEnum(EnumHandle(r.Index))
		fill(&v.Common)
		sum.Specialized = v.Origin.IsValid()
	case KindFunction:
		f := e.GetFunction(FunctionHandle(r.Index))
		fill(&f.Common)
		sum.Owner = f.Owner
		sum.Specialized = f.Origin.IsValid()
	case KindTrait:
		fill(&e.GetTrait(TraitHandle(r.Index)).Common)
	case KindAbi:
		fill(&e.GetAbi(AbiHandle(r.Index)).Common)
	case KindConstant:
		fill(&e.GetConstant(ConstantHandle(r.Index)).Common)
	case KindImpl:
		im := e.GetImpl(ImplHandle(r.Index))
		sum.Name = "impl " + e.types.Format(im.Target, e)
		sum.NameSpan = im.TargetSpan
		sum.Span = im.Span
	case KindStorage:
		sum.Name = "storage"
		sum.Span = e.GetStorage(StorageHandle(r.Index)).Span
		sum.NameSpan = sum.Span
	default:
		panic(&arena.InvariantViolation{Arena: "decl ref", Handle: r.Index})
	}
	return sum
}

// DeclName implements types.Namer.
func (e *Engine) DeclName(kind types.Kind, idx uint32) string {
	switch kind {
	case types.KindStruct:
		return e.strings.MustLookup(e.GetStruct(StructHandle(idx)).Name)
	case types.KindEnum:
		return e.strings.MustLookup(e.GetEnum(EnumHandle(idx)).Name)
	}
	return kind.String()
}

// ImplsOf returns the impls attached to the struct or enum behind target,
// in attachment order. For Contract it returns every impl targeting it.
func (e *Engine) ImplsOf(target types.TypeID) []ImplHandle {
	_, t := e.types.Shallow(target)
	switch t.Kind {
	case types.KindStruct:
		return e.GetStruct(StructHandle(t.Decl)).Impls
	case types.KindEnum:
		return e.GetEnum(EnumHandle(t.Decl)).Impls
	case types.KindContract:
		var impls []ImplHandle
		for h, im := range e.impls.All() {
			if e.types.IsKind(im.Target, types.KindContract) {
				impls = append(impls, h)
			}
		}
		return impls
	}
	return nil
}
