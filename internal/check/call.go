package check

import (
	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// instantiation is a use of a generic declaration whose arguments are
// specialized once inference has finished.
type instantiation struct {
	ref  decl.Ref
	args []types.TypeID
	span source.Span
	name string
}

func (c *checker) instantiate(r decl.Ref, args []types.TypeID, sp source.Span, name string) {
	if len(args) == 0 {
		return
	}
	c.pending = append(c.pending, instantiation{ref: r, args: args, span: sp, name: name})
}

// method is a callable member found for a receiver type.
type method struct {
	fn decl.FunctionHandle
	// impl is zero for members of a trait called on its own Self.
	impl decl.ImplHandle
	// trait is set when fn is declared in a trait.
	trait decl.TraitHandle
}

func (c *checker) call(fc *fnCtx, e *ast.CallExpr) types.TypeID {
	path, ok := e.Callee.(*ast.PathExpr)
	if !ok {
		t := c.inferExpr(fc, e.Callee, types.NoTypeID)
		if !c.ti.IsKind(t, types.KindError) {
			c.errorf(diag.SemaError, e.Callee.ExprSpan(), "expected function, found `%s`", c.eng.FormatType(t)).Emit()
		}
		return c.skipArgs(fc, e.Args)
	}
	segs := path.Segments
	switch len(segs) {
	case 1:
		name := segs[0].Name
		if l := fc.lookup(name); l != nil {
			l.used = true
			c.errorf(diag.SemaError, path.Span, "`%s` is a local variable, not a function", name).Emit()
			return c.skipArgs(fc, e.Args)
		}
		r, ok := c.decls.Lookup(decl.RootScope, c.intern(name))
		if !ok {
			c.unresolvedName(name, segs[0].Span, "function")
			return c.skipArgs(fc, e.Args)
		}
		h, isFn := r.Function()
		if !isFn {
			c.errorf(diag.SemaError, path.Span, "expected function, found %s `%s`", r.Kind, name).Emit()
			return c.skipArgs(fc, e.Args)
		}
		fn := *c.decls.GetFunction(h)
		return c.callWith(fc, h, &fn, map[types.TypeID]types.TypeID{}, fn.Params, e.Args, e.Span)
	case 2:
		owner, ok := c.typeName(fc, segs[0])
		if !ok {
			return c.skipArgs(fc, e.Args)
		}
		member := segs[1]
		if owner.kind == decl.KindEnum {
			v := c.decls.GetEnum(decl.EnumHandle(owner.index))
			if i := v.VariantIndex(c.intern(member.Name)); i >= 0 {
				payload := c.ti.Substitute(v.Variants[i].Type, c.argSubst(v.Generics, owner.ty))
				c.variantArgs(fc, segs, payload, e)
				return owner.ty
			}
		}
		m, found := c.findMethod(owner.ty, c.intern(member.Name))
		if !found {
			c.unresolvedName(segs[0].Name+"::"+member.Name, member.Span, "associated item")
			return c.skipArgs(fc, e.Args)
		}
		fn := *c.decls.GetFunction(m.fn)
		subst := c.memberSubst(member.Span, m, owner.ty)
		return c.callWith(fc, m.fn, &fn, subst, fn.Params, e.Args, e.Span)
	}
	c.errorf(diag.SemaError, path.Span, "unsupported path `%s`", joinPath(segs)).Emit()
	return c.skipArgs(fc, e.Args)
}

func (c *checker) variantArgs(fc *fnCtx, segs []ast.Ident, payload types.TypeID, e *ast.CallExpr) {
	want := 1
	if payload == c.b.Unit {
		want = 0
	}
	if len(e.Args) != want {
		c.errorf(diag.SemaArgumentCount, e.Span, "variant `%s::%s` takes %d argument(s) but %d were supplied",
			segs[0].Name, segs[1].Name, want, len(e.Args)).Emit()
	}
	for i, a := range e.Args {
		hint := types.NoTypeID
		if i < want {
			hint = payload
		}
		c.checkExpr(fc, a, hint)
	}
}

func (c *checker) methodCall(fc *fnCtx, e *ast.MethodCallExpr) types.TypeID {
	recv := c.inferExpr(fc, e.Recv, types.NoTypeID)
	root, t := c.deref(recv)
	switch t.Kind {
	case types.KindError:
		return c.skipArgs(fc, e.Args)
	case types.KindPlaceholder:
		c.errorf(diag.SemaCannotInferType, e.Recv.ExprSpan(), "type annotations needed before calling `%s`", e.Method.Name).Emit()
		return c.skipArgs(fc, e.Args)
	}
	m, found := c.findMethod(root, c.intern(e.Method.Name))
	if !found {
		c.errorf(diag.SemaUnresolvedName, e.Method.Span, "no method named `%s` found for `%s`",
			e.Method.Name, c.eng.FormatType(root)).Emit()
		return c.skipArgs(fc, e.Args)
	}
	fn := *c.decls.GetFunction(m.fn)
	if !fn.HasSelf() {
		c.errorf(diag.SemaError, e.Method.Span, "`%s` is an associated function, not a method", e.Method.Name).
			WithNote(fn.NameSpan, "defined here").
			Emit()
		return c.skipArgs(fc, e.Args)
	}
	subst := c.memberSubst(e.Method.Span, m, root)
	return c.callWith(fc, m.fn, &fn, subst, fn.Params[1:], e.Args, e.Span)
}

// memberSubst instantiates the impl generics of m against recv and binds
// the trait's Self.
func (c *checker) memberSubst(sp source.Span, m method, recv types.TypeID) map[types.TypeID]types.TypeID {
	subst := map[types.TypeID]types.TypeID{}
	if m.impl.IsValid() {
		im := c.decls.GetImpl(m.impl)
		for _, g := range im.Generics {
			subst[g] = c.ti.Fresh()
		}
		c.unify(sp, c.ti.Substitute(im.Target, subst), recv)
	}
	if m.trait.IsValid() {
		subst[c.traitSelf[m.trait]] = recv
	}
	return subst
}

// callWith checks args against params and returns the instantiated return
// type. subst is extended with fresh placeholders for the function's own
// generics.
func (c *checker) callWith(fc *fnCtx, h decl.FunctionHandle, fn *decl.Function, subst map[types.TypeID]types.TypeID, params []decl.Param, args []ast.Expr, sp source.Span) types.TypeID {
	own := c.freshArgs(len(fn.Generics))
	for i, g := range fn.Generics {
		subst[g] = own[i]
	}
	if len(args) != len(params) {
		c.errorf(diag.SemaArgumentCount, sp, "function `%s` takes %d argument(s) but %d were supplied",
			c.name(fn.Name), len(params), len(args)).
			WithNote(fn.NameSpan, "defined here").
			Emit()
	}
	for i, a := range args {
		want := types.NoTypeID
		if i < len(params) {
			want = c.ti.Substitute(params[i].Type, subst)
		}
		c.checkExpr(fc, a, want)
	}
	c.instantiate(decl.RefFunction(h), own, sp, c.name(fn.Name))
	return c.ti.Substitute(fn.Ret, subst)
}

// skipArgs checks arguments of a failed call for their own errors.
func (c *checker) skipArgs(fc *fnCtx, args []ast.Expr) types.TypeID {
	for _, a := range args {
		c.inferExpr(fc, a, types.NoTypeID)
	}
	return c.b.Error
}

// findMethod looks name up in the impls attached to recv: members first,
// then provided methods of implemented traits. On a trait's own Self the
// trait's members are searched.
func (c *checker) findMethod(recv types.TypeID, name source.StringID) (method, bool) {
	if _, t := c.ti.Shallow(recv); t.Kind == types.KindGeneric {
		for th, self := range c.traitSelf {
			if self != recv {
				continue
			}
			if r, ok := c.decls.Lookup(decl.ScopeOf(decl.RefTrait(th)), name); ok {
				fh, _ := r.Function()
				return method{fn: fh, trait: th}, true
			}
		}
		return method{}, false
	}
	impls := c.decls.ImplsOf(recv)
	for _, ih := range impls {
		if r, ok := c.decls.Lookup(decl.ScopeOf(decl.RefImpl(ih)), name); ok {
			fh, _ := r.Function()
			return method{fn: fh, impl: ih}, true
		}
	}
	for _, ih := range impls {
		th, ok := c.decls.GetImpl(ih).Trait.Trait()
		if !ok {
			continue
		}
		r, ok := c.decls.Lookup(decl.ScopeOf(decl.RefTrait(th)), name)
		if !ok {
			continue
		}
		if fh, _ := r.Function(); c.decls.GetFunction(fh).Body != nil {
			return method{fn: fh, impl: ih, trait: th}, true
		}
	}
	return method{}, false
}
