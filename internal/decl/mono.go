package decl

import (
	"errors"
	"fmt"
	"slices"

	"vela/internal/types"
)

var (
	// ErrUnresolvedArgs is returned when a type argument still contains an
	// inference placeholder. Specialization waits until inference is done.
	ErrUnresolvedArgs = errors.New("decl: type arguments are not fully resolved")
	ErrArgCount       = errors.New("decl: wrong number of type arguments")
)

type monoKey struct {
	kind Kind
	decl uint32
	args types.ListID
}

// prepare resolves args and checks them against the generic parameters.
func (e *Engine) prepare(generics, args []types.TypeID) ([]types.TypeID, map[types.TypeID]types.TypeID, error) {
	if len(args) != len(generics) {
		return nil, nil, fmt.Errorf("%w: want %d, got %d", ErrArgCount, len(generics), len(args))
	}
	resolved := make([]types.TypeID, len(args))
	subst := make(map[types.TypeID]types.TypeID, len(args))
	for i, a := range args {
		resolved[i] = e.types.Resolve(a)
		if e.types.HasPlaceholders(resolved[i]) {
			return nil, nil, ErrUnresolvedArgs
		}
		subst[generics[i]] = resolved[i]
	}
	return resolved, subst, nil
}

// MonomorphizeStruct returns the specialization of h for args. Equal
// arguments share one handle; a non-generic struct is returned as is.
func (e *Engine) MonomorphizeStruct(h StructHandle, args []types.TypeID) (StructHandle, error) {
	src := e.GetStruct(h)
	if len(src.Generics) == 0 && len(args) == 0 {
		return h, nil
	}
	resolved, subst, err := e.prepare(src.Generics, args)
	if err != nil {
		return 0, err
	}
	key := monoKey{kind: KindStruct, decl: h.Index(), args: e.types.InternList(resolved)}
	if idx, ok := e.mono[key]; ok {
		return StructHandle(idx), nil
	}
	clone := *src
	clone.Generics = nil
	clone.Fields = make([]Field, len(src.Fields))
	for i, f := range src.Fields {
		f.Type = e.types.Substitute(f.Type, subst)
		clone.Fields[i] = f
	}
	clone.Impls = slices.Clone(src.Impls)
	clone.Type = e.types.Struct(h.Index(), resolved)
	clone.Origin = h
	clone.Args = resolved
	nh := e.InsertStruct(clone)
	e.mono[key] = nh.Index()
	return nh, nil
}

// MonomorphizeEnum is MonomorphizeStruct for enums.
func (e *Engine) MonomorphizeEnum(h EnumHandle, args []types.TypeID) (EnumHandle, error) {
	src := e.GetEnum(h)
	if len(src.Generics) == 0 && len(args) == 0 {
		return h, nil
	}
	resolved, subst, err := e.prepare(src.Generics, args)
	if err != nil {
		return 0, err
	}
	key := monoKey{kind: KindEnum, decl: h.Index(), args: e.types.InternList(resolved)}
	if idx, ok := e.mono[key]; ok {
		return EnumHandle(idx), nil
	}
	clone := *src
	clone.Generics = nil
	clone.Variants = make([]Variant, len(src.Variants))
	for i, v := range src.Variants {
		v.Type = e.types.Substitute(v.Type, subst)
		clone.Variants[i] = v
	}
	clone.Impls = slices.Clone(src.Impls)
	clone.Type = e.types.Enum(h.Index(), resolved)
	clone.Origin = h
	clone.Args = resolved
	nh := e.InsertEnum(clone)
	e.mono[key] = nh.Index()
	return nh, nil
}

// MonomorphizeFunction specializes the function's own generic parameters.
// The body is the same syntax tree; only the signature is substituted.
func (e *Engine) MonomorphizeFunction(h FunctionHandle, args []types.TypeID) (FunctionHandle, error) {
	src := e.GetFunction(h)
	if len(src.Generics) == 0 && len(args) == 0 {
		return h, nil
	}
	resolved, subst, err := e.prepare(src.Generics, args)
	if err != nil {
		return 0, err
	}
	key := monoKey{kind: KindFunction, decl: h.Index(), args: e.types.InternList(resolved)}
	if idx, ok := e.mono[key]; ok {
		return FunctionHandle(idx), nil
	}
	clone := *src
	clone.Generics = nil
	clone.Params = make([]Param, len(src.Params))
	for i, p := range src.Params {
		p.Type = e.types.Substitute(p.Type, subst)
		clone.Params[i] = p
	}
	clone.Ret = e.types.Substitute(src.Ret, subst)
	clone.Origin = h
	clone.Args = resolved
	nh := e.InsertFunction(clone)
	e.mono[key] = nh.Index()
	return nh, nil
}
