package types

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Error    TypeID
	Never    TypeID
	Unit     TypeID
	Bool     TypeID
	U8       TypeID
	U16      TypeID
	U32      TypeID
	U64      TypeID
	Str      TypeID
	B256     TypeID
	Contract TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors. It is
// not safe for concurrent use.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins

	lists     [][]TypeID
	listIndex map[string]ListID

	generics []string // generic parameter names by Index

	// union-find over placeholders, indexed by Type.Index
	parent  []TypeID
	class   []PlaceholderClass
	trail   []trailEntry
	inUnify bool
}

// NewInterner constructs an interner seeded with the primitives.
func NewInterner() *Interner {
	in := &Interner{
		types:     make([]Type, 1, 64), // 0 = NoTypeID
		index:     make(map[Type]TypeID, 64),
		lists:     [][]TypeID{nil},
		listIndex: map[string]ListID{"": 0},
	}
	in.builtins = Builtins{
		Error:    in.Intern(Type{Kind: KindError}),
		Never:    in.Intern(Type{Kind: KindNever}),
		Unit:     in.Intern(Type{Kind: KindUnit}),
		Bool:     in.Intern(Type{Kind: KindBool}),
		U8:       in.Intern(Type{Kind: KindUint, Width: Width8}),
		U16:      in.Intern(Type{Kind: KindUint, Width: Width16}),
		U32:      in.Intern(Type{Kind: KindUint, Width: Width32}),
		U64:      in.Intern(Type{Kind: KindUint, Width: Width64}),
		Str:      in.Intern(Type{Kind: KindStr}),
		B256:     in.Intern(Type{Kind: KindB256}),
		Contract: in.Intern(Type{Kind: KindContract}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern returns the id for t, allocating on first use. An empty tuple is
// the unit type.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if t.Kind == KindTuple && t.Args == 0 && in.builtins.Unit != NoTypeID {
		return in.builtins.Unit
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Len counts interned descriptors.
func (in *Interner) Len() int { return len(in.types) - 1 }

// InternList interns an ordered list of type ids.
func (in *Interner) InternList(ids []TypeID) ListID {
	if len(ids) == 0 {
		return 0
	}
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	key := string(buf)
	if lid, ok := in.listIndex[key]; ok {
		return lid
	}
	n, err := safecast.Conv[uint32](len(in.lists))
	if err != nil {
		panic(fmt.Errorf("len(lists) overflow: %w", err))
	}
	lid := ListID(n)
	in.lists = append(in.lists, append([]TypeID(nil), ids...))
	in.listIndex[key] = lid
	return lid
}

// List returns the ids of an interned list. The slice must not be modified.
func (in *Interner) List(id ListID) []TypeID {
	if int(id) >= len(in.lists) {
		panic(fmt.Sprintf("types: invalid ListID %d", id))
	}
	return in.lists[id]
}

// Args returns type arguments of a struct or enum, or tuple elements.
func (in *Interner) Args(id TypeID) []TypeID {
	return in.List(in.MustLookup(id).Args)
}

func (in *Interner) Uint(w Width) TypeID {
	return in.Intern(Type{Kind: KindUint, Width: w})
}

func (in *Interner) Struct(decl uint32, args []TypeID) TypeID {
	return in.Intern(Type{Kind: KindStruct, Decl: decl, Args: in.InternList(args)})
}

func (in *Interner) Enum(decl uint32, args []TypeID) TypeID {
	return in.Intern(Type{Kind: KindEnum, Decl: decl, Args: in.InternList(args)})
}

func (in *Interner) Tuple(elems []TypeID) TypeID {
	return in.Intern(Type{Kind: KindTuple, Args: in.InternList(elems)})
}

func (in *Interner) Array(elem TypeID, n uint64) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Count: n})
}

func (in *Interner) Ref(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindRef, Elem: elem, Mutable: mutable})
}

// NewGeneric allocates a distinct generic parameter. Two parameters with the
// same name on different declarations are different types.
func (in *Interner) NewGeneric(name string) TypeID {
	n, err := safecast.Conv[uint32](len(in.generics))
	if err != nil {
		panic(fmt.Errorf("len(generics) overflow: %w", err))
	}
	in.generics = append(in.generics, name)
	return in.internRaw(Type{Kind: KindGeneric, Index: n})
}

// GenericName returns the source name of a generic parameter.
func (in *Interner) GenericName(id TypeID) string {
	t := in.MustLookup(id)
	if t.Kind != KindGeneric {
		return ""
	}
	return in.generics[t.Index]
}

// Fresh allocates an unbound placeholder.
func (in *Interner) Fresh() TypeID {
	return in.fresh(ClassAny)
}

// FreshInt allocates the placeholder of an integer literal.
func (in *Interner) FreshInt() TypeID {
	return in.fresh(ClassInt)
}

func (in *Interner) fresh(class PlaceholderClass) TypeID {
	n, err := safecast.Conv[uint32](len(in.parent))
	if err != nil {
		panic(fmt.Errorf("placeholder overflow: %w", err))
	}
	in.parent = append(in.parent, NoTypeID)
	in.class = append(in.class, class)
	return in.internRaw(Type{Kind: KindPlaceholder, Index: n})
}

// IsKind reports whether the resolved root of id has kind k.
func (in *Interner) IsKind(id TypeID, k Kind) bool {
	t, ok := in.Lookup(in.find(id))
	return ok && t.Kind == k
}

// Shallow returns the descriptor of id after following placeholder bindings.
func (in *Interner) Shallow(id TypeID) (TypeID, Type) {
	root := in.find(id)
	return root, in.MustLookup(root)
}
