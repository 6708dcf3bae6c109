package check

import (
	"fmt"
	"slices"

	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/types"
)

// resolve runs in three passes over the collected declarations, each in
// insertion order: signatures, impl conformance, bodies.
func (c *checker) resolve() error {
	refs := slices.Clone(c.decls.Refs())
	for _, r := range refs {
		if err := c.cancelled(); err != nil {
			return err
		}
		c.resolveSignature(r)
	}
	for _, r := range refs {
		if ih, ok := r.Impl(); ok {
			c.conform(ih)
		}
	}
	for _, r := range refs {
		if err := c.cancelled(); err != nil {
			return err
		}
		c.resolveBody(r)
	}
	return nil
}

func (c *checker) resolveSignature(r decl.Ref) {
	switch r.Kind {
	case decl.KindStruct:
		h, _ := r.Struct()
		src := c.structs[h]
		s := c.decls.GetStruct(h)
		for i, f := range src.item.Fields {
			s.Fields[i].Type = c.resolveType(src.env, f.Type)
		}
	case decl.KindEnum:
		h, _ := r.Enum()
		src := c.enums[h]
		v := c.decls.GetEnum(h)
		for i, vr := range src.item.Variants {
			v.Variants[i].Type = c.resolveType(src.env, vr.Type)
		}
	case decl.KindFunction:
		h, _ := r.Function()
		c.resolveFnSignature(h)
	case decl.KindImpl:
		h, _ := r.Impl()
		c.resolveImplHeader(h)
	case decl.KindConstant:
		h, _ := r.Constant()
		it := c.consts[h]
		ty := c.ti.Fresh()
		if it.Type != nil {
			ty = c.resolveType(nil, it.Type)
		}
		c.decls.GetConstant(h).Type = ty
	case decl.KindStorage:
		h, _ := r.Storage()
		st := c.decls.GetStorage(h)
		for i, f := range c.storageAST.Fields {
			st.Fields[i].Type = c.resolveType(nil, f.Type)
		}
	}
}

func (c *checker) resolveFnSignature(h decl.FunctionHandle) {
	src := c.fnAST[h]
	fn := c.decls.GetFunction(h)
	for i, p := range src.sig.Params {
		if !p.IsSelf {
			fn.Params[i].Type = c.resolveType(src.env, p.Type)
			continue
		}
		self := src.env.selfType()
		if self == types.NoTypeID {
			c.errorf(diag.SemaError, p.Span, "`self` parameter is only allowed in associated functions").Emit()
			self = c.b.Error
		}
		if p.Ref {
			self = c.ti.Ref(self, p.Mut)
		}
		fn.Params[i].Type = self
	}
	fn.Ret = c.resolveType(src.env, src.sig.Ret)
}

// resolveImplHeader resolves the target and the implemented trait, then
// attaches the impl to the target declaration.
func (c *checker) resolveImplHeader(h decl.ImplHandle) {
	src := c.impls[h]
	target := c.b.Error
	if src.item.Target != nil {
		target = c.resolveType(src.env, src.item.Target)
	}
	src.env.self = target

	im := c.decls.GetImpl(h)
	im.Target = target
	if src.item.Trait != nil {
		im.Trait = c.resolveTrait(src.item.Trait)
	}
	trait := im.Trait

	_, t := c.ti.Shallow(target)
	if src.item.Trait == nil && (t.Kind == types.KindStruct || t.Kind == types.KindEnum) {
		c.inherentConflicts(h, c.decls.ImplsOf(target))
	}
	switch t.Kind {
	case types.KindStruct:
		s := c.decls.GetStruct(decl.StructHandle(t.Decl))
		s.Impls = append(s.Impls, h)
	case types.KindEnum:
		v := c.decls.GetEnum(decl.EnumHandle(t.Decl))
		v.Impls = append(v.Impls, h)
	case types.KindContract, types.KindError:
	default:
		c.errorf(diag.SemaError, src.item.Target.TypeSpan(), "cannot define methods on `%s`", c.eng.FormatType(target)).Emit()
	}

	if _, isAbi := trait.Abi(); isAbi && t.Kind != types.KindContract && t.Kind != types.KindError {
		c.errorf(diag.SemaError, src.item.Target.TypeSpan(), "abi `%s` can only be implemented for `Contract`", c.name(c.decls.GetImpl(h).TraitName)).Emit()
	}
}

// inherentConflicts reports members of h already defined by an earlier
// inherent impl of the same type. The earlier definition wins lookups.
func (c *checker) inherentConflicts(h decl.ImplHandle, attached []decl.ImplHandle) {
	for _, fh := range c.decls.GetImpl(h).Members {
		fn := c.decls.GetFunction(fh)
		for _, prev := range attached {
			if ps, ok := c.impls[prev]; !ok || ps.item.Trait != nil {
				continue
			}
			r, ok := c.decls.Lookup(decl.ScopeOf(decl.RefImpl(prev)), fn.Name)
			if !ok {
				continue
			}
			name := c.name(fn.Name)
			c.errorf(diag.SemaDuplicateDeclaration, fn.NameSpan, "the method `%s` is defined multiple times", name).
				WithNote(c.decls.Describe(r).NameSpan, "previous definition of `"+name+"` here").
				Emit()
			break
		}
	}
}

func (c *checker) resolveTrait(pt *ast.PathType) decl.Ref {
	r, ok := c.decls.Lookup(decl.RootScope, c.intern(pt.Name.Name))
	if !ok {
		c.unresolvedName(pt.Name.Name, pt.Name.Span, "trait")
		return decl.Ref{}
	}
	if r.Kind != decl.KindTrait && r.Kind != decl.KindAbi {
		c.errorf(diag.SemaError, pt.Name.Span, "expected trait, found %s `%s`", r.Kind, pt.Name.Name).Emit()
		return decl.Ref{}
	}
	if len(pt.Args) > 0 {
		c.errorf(diag.SemaArgumentCount, pt.Span, "trait `%s` takes no type arguments", pt.Name.Name).Emit()
	}
	return r
}

var primitiveTypes = map[string]func(types.Builtins) types.TypeID{
	"u8":       func(b types.Builtins) types.TypeID { return b.U8 },
	"u16":      func(b types.Builtins) types.TypeID { return b.U16 },
	"u32":      func(b types.Builtins) types.TypeID { return b.U32 },
	"u64":      func(b types.Builtins) types.TypeID { return b.U64 },
	"bool":     func(b types.Builtins) types.TypeID { return b.Bool },
	"str":      func(b types.Builtins) types.TypeID { return b.Str },
	"b256":     func(b types.Builtins) types.TypeID { return b.B256 },
	"Contract": func(b types.Builtins) types.TypeID { return b.Contract },
}

// resolveType turns written syntax into a TypeID. A nil expression is the
// unit type. Unknown names resolve to the error sentinel.
func (c *checker) resolveType(env *genericEnv, te ast.TypeExpr) types.TypeID {
	switch te := te.(type) {
	case nil:
		return c.b.Unit
	case *ast.TupleType:
		elems := make([]types.TypeID, len(te.Elems))
		for i, el := range te.Elems {
			elems[i] = c.resolveType(env, el)
		}
		return c.ti.Tuple(elems)
	case *ast.ArrayType:
		return c.ti.Array(c.resolveType(env, te.Elem), te.Len)
	case *ast.RefType:
		return c.ti.Ref(c.resolveType(env, te.Elem), te.Mut)
	case *ast.SelfType:
		if self := env.selfType(); self != types.NoTypeID {
			return self
		}
		c.errorf(diag.SemaError, te.Span, "`Self` is only available in impls, traits and abis").Emit()
		return c.b.Error
	case *ast.PathType:
		return c.resolvePathType(env, te)
	}
	panic(fmt.Sprintf("check: unexpected type syntax %T", te))
}

func (c *checker) resolvePathType(env *genericEnv, te *ast.PathType) types.TypeID {
	name := te.Name.Name
	if mk, ok := primitiveTypes[name]; ok {
		if len(te.Args) > 0 {
			c.errorf(diag.SemaArgumentCount, te.Span, "type `%s` takes no type arguments", name).Emit()
		}
		return mk(c.b)
	}
	if g, ok := env.lookup(name); ok {
		if len(te.Args) > 0 {
			c.errorf(diag.SemaArgumentCount, te.Span, "generic parameter `%s` takes no type arguments", name).Emit()
		}
		return g
	}
	r, ok := c.decls.Lookup(decl.RootScope, c.intern(name))
	if !ok {
		return c.unresolvedName(name, te.Name.Span, "type")
	}
	args := make([]types.TypeID, len(te.Args))
	for i, a := range te.Args {
		args[i] = c.resolveType(env, a)
	}
	var want int
	var mk func() types.TypeID
	switch r.Kind {
	case decl.KindStruct:
		h, _ := r.Struct()
		want = len(c.decls.GetStruct(h).Generics)
		mk = func() types.TypeID { return c.ti.Struct(h.Index(), args) }
	case decl.KindEnum:
		h, _ := r.Enum()
		want = len(c.decls.GetEnum(h).Generics)
		mk = func() types.TypeID { return c.ti.Enum(h.Index(), args) }
	default:
		c.errorf(diag.SemaError, te.Name.Span, "expected type, found %s `%s`", r.Kind, name).Emit()
		return c.b.Error
	}
	if want != len(args) {
		c.errorf(diag.SemaArgumentCount, te.Span, "%s `%s` takes %d type argument(s) but %d were supplied",
			r.Kind, name, want, len(args)).Emit()
		return c.b.Error
	}
	ty := mk()
	if want > 0 && !c.ti.ContainsGeneric(ty) && !c.ti.ContainsError(ty) {
		c.pending = append(c.pending, instantiation{ref: r, args: args, span: te.Span, name: name})
	}
	return ty
}
