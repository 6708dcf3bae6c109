package check

import (
	"strings"

	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// collect inserts every declaration of files into the declaration engine.
// Types are not resolved yet; only names, spans and generic parameters are
// recorded.
func (c *checker) collect(files []*ast.File) error {
	for _, f := range files {
		if f == nil {
			continue
		}
		for _, it := range f.Items {
			if err := c.cancelled(); err != nil {
				return err
			}
			c.collectItem(it)
		}
	}
	return nil
}

func (c *checker) collectItem(it ast.Item) {
	switch it := it.(type) {
	case *ast.StructItem:
		c.collectStruct(it)
	case *ast.EnumItem:
		c.collectEnum(it)
	case *ast.FnItem:
		if !c.free(decl.RootScope, it.Sig.Name) {
			return
		}
		h := c.collectFn(&it.Sig, it.Body, &it.ItemHeader, newEnv(nil), decl.Ref{})
		c.decls.Declare(decl.RootScope, c.intern(it.Sig.Name.Name), decl.RefFunction(h))
	case *ast.TraitItem:
		c.collectTrait(it)
	case *ast.ImplItem:
		c.collectImpl(it)
	case *ast.ConstItem:
		if !c.free(decl.RootScope, it.Name) {
			return
		}
		h := c.decls.InsertConstant(decl.Constant{
			Common: c.common(it.Name, &it.ItemHeader),
			Value:  it.Value,
		})
		c.consts[h] = it
		c.decls.Declare(decl.RootScope, c.intern(it.Name.Name), decl.RefConstant(h))
	case *ast.StorageItem:
		c.collectStorage(it)
	case *ast.AbiItem:
		c.collectAbi(it)
	}
}

// free reports whether name is still available in scope, emitting
// DuplicateDeclaration against the first declaration otherwise.
func (c *checker) free(scope decl.Scope, name ast.Ident) bool {
	prev, taken := c.decls.Lookup(scope, c.intern(name.Name))
	if !taken {
		return true
	}
	first := c.decls.Describe(prev).NameSpan
	c.errorf(diag.SemaDuplicateDeclaration, name.Span, "the name `%s` is defined multiple times", name.Name).
		WithNote(first, "previous definition of `"+name.Name+"` here").
		Emit()
	return false
}

// uniqueNames reports repeated names inside one declaration (fields,
// variants, parameters). Every occurrence after the first is reported.
func (c *checker) uniqueNames(what string, names []ast.Ident) {
	seen := make(map[string]source.Span, len(names))
	for _, n := range names {
		if n.IsZero() {
			continue
		}
		if first, dup := seen[n.Name]; dup {
			c.errorf(diag.SemaDuplicateDeclaration, n.Span, "%s `%s` is already declared", what, n.Name).
				WithNote(first, "first declared here").
				Emit()
			continue
		}
		seen[n.Name] = n.Span
	}
}

func (c *checker) common(name ast.Ident, h *ast.ItemHeader) decl.Common {
	return decl.Common{
		Name:     c.intern(name.Name),
		NameSpan: name.Span,
		Span:     h.Span,
		Doc:      h.Doc,
		Pub:      h.Pub,
	}
}

// generics allocates fresh generic parameters and binds them in env.
func (c *checker) generics(env *genericEnv, names []ast.Ident) []types.TypeID {
	if len(names) == 0 {
		return nil
	}
	c.uniqueNames("generic parameter", names)
	out := make([]types.TypeID, 0, len(names))
	for _, n := range names {
		g := c.ti.NewGeneric(n.Name)
		if _, dup := env.names[n.Name]; !dup {
			env.names[n.Name] = g
		}
		out = append(out, g)
	}
	return out
}

func (c *checker) collectStruct(it *ast.StructItem) {
	if !c.free(decl.RootScope, it.Name) {
		return
	}
	env := newEnv(nil)
	s := decl.Struct{
		Common:   c.common(it.Name, &it.ItemHeader),
		Generics: c.generics(env, it.Generics),
	}
	names := make([]ast.Ident, 0, len(it.Fields))
	for _, f := range it.Fields {
		names = append(names, f.Name)
		s.Fields = append(s.Fields, decl.Field{Name: c.intern(f.Name.Name), Span: f.Span})
	}
	c.uniqueNames("field", names)
	h := c.decls.InsertStruct(s)
	c.decls.GetStruct(h).Type = c.ti.Struct(h.Index(), s.Generics)
	c.structs[h] = structSource{item: it, env: env}
	c.decls.Declare(decl.RootScope, s.Name, decl.RefStruct(h))
}

func (c *checker) collectEnum(it *ast.EnumItem) {
	if !c.free(decl.RootScope, it.Name) {
		return
	}
	env := newEnv(nil)
	v := decl.Enum{
		Common:   c.common(it.Name, &it.ItemHeader),
		Generics: c.generics(env, it.Generics),
	}
	names := make([]ast.Ident, 0, len(it.Variants))
	for _, vr := range it.Variants {
		names = append(names, vr.Name)
		v.Variants = append(v.Variants, decl.Variant{Name: c.intern(vr.Name.Name), Span: vr.Span})
	}
	c.uniqueNames("variant", names)
	h := c.decls.InsertEnum(v)
	c.decls.GetEnum(h).Type = c.ti.Enum(h.Index(), v.Generics)
	c.enums[h] = enumSource{item: it, env: env}
	c.decls.Declare(decl.RootScope, v.Name, decl.RefEnum(h))
}

// collectFn inserts a function with the given owner. Parameter and return
// types are filled in by the resolve stage. A nil header is used for abi
// and trait signatures.
func (c *checker) collectFn(sig *ast.FnSig, body *ast.Block, hdr *ast.ItemHeader, parent *genericEnv, owner decl.Ref) decl.FunctionHandle {
	env := newEnv(parent)
	fn := decl.Function{
		Common:   decl.Common{Name: c.intern(sig.Name.Name), NameSpan: sig.Name.Span, Span: sig.Span},
		Generics: c.generics(env, sig.Generics),
		Body:     body,
		Owner:    owner,
	}
	if hdr != nil {
		fn.Common = c.common(sig.Name, hdr)
		fn.Test = hdr.HasAttr("test")
	}
	names := make([]ast.Ident, 0, len(sig.Params))
	for _, p := range sig.Params {
		names = append(names, p.Name)
		fn.Params = append(fn.Params, decl.Param{
			Name:   c.intern(p.Name.Name),
			Span:   p.Span,
			Mut:    p.Mut,
			IsSelf: p.IsSelf,
		})
	}
	c.uniqueNames("parameter", names)
	if sig.Ret != nil {
		fn.RetSpan = sig.Ret.TypeSpan()
	}
	h := c.decls.InsertFunction(fn)
	c.fnAST[h] = &fnSource{sig: sig, body: body, env: env}
	return h
}

// member inserts a function into the member scope of owner, reporting
// duplicates. It returns false when the name was already taken.
func (c *checker) member(owner decl.Ref, sig *ast.FnSig, body *ast.Block, hdr *ast.ItemHeader, env *genericEnv) (decl.FunctionHandle, bool) {
	scope := decl.ScopeOf(owner)
	if !c.free(scope, sig.Name) {
		return 0, false
	}
	h := c.collectFn(sig, body, hdr, env, owner)
	c.decls.Declare(scope, c.intern(sig.Name.Name), decl.RefFunction(h))
	return h, true
}

func (c *checker) collectTrait(it *ast.TraitItem) {
	if !c.free(decl.RootScope, it.Name) {
		return
	}
	th := c.decls.InsertTrait(decl.Trait{Common: c.common(it.Name, &it.ItemHeader)})
	ref := decl.RefTrait(th)
	c.decls.Declare(decl.RootScope, c.intern(it.Name.Name), ref)

	env := newEnv(nil)
	env.self = c.ti.NewGeneric("Self")
	c.traitSelf[th] = env.self

	var required, provided []decl.FunctionHandle
	for i := range it.Required {
		if h, ok := c.member(ref, &it.Required[i], nil, nil, env); ok {
			required = append(required, h)
		}
	}
	for _, fn := range it.Provided {
		if h, ok := c.member(ref, &fn.Sig, fn.Body, &fn.ItemHeader, env); ok {
			provided = append(provided, h)
		}
	}
	t := c.decls.GetTrait(th)
	t.Required, t.Provided = required, provided
}

func (c *checker) collectAbi(it *ast.AbiItem) {
	if !c.free(decl.RootScope, it.Name) {
		return
	}
	ah := c.decls.InsertAbi(decl.Abi{Common: c.common(it.Name, &it.ItemHeader)})
	ref := decl.RefAbi(ah)
	c.decls.Declare(decl.RootScope, c.intern(it.Name.Name), ref)

	env := newEnv(nil)
	env.self = c.b.Contract
	var methods []decl.FunctionHandle
	for i := range it.Methods {
		if h, ok := c.member(ref, &it.Methods[i], nil, nil, env); ok {
			methods = append(methods, h)
		}
	}
	c.decls.GetAbi(ah).Methods = methods
}

func (c *checker) collectImpl(it *ast.ImplItem) {
	env := newEnv(nil)
	im := decl.Impl{
		Span:     it.Span,
		Generics: c.generics(env, it.Generics),
	}
	if it.Target != nil {
		im.TargetSpan = it.Target.TypeSpan()
	}
	if it.Trait != nil {
		im.TraitName = c.intern(it.Trait.Name.Name)
		im.TraitSpan = it.Trait.Span
	}
	ih := c.decls.InsertImpl(im)
	ref := decl.RefImpl(ih)
	c.impls[ih] = implSource{item: it, env: env}

	var members []decl.FunctionHandle
	for _, fn := range it.Fns {
		if h, ok := c.member(ref, &fn.Sig, fn.Body, &fn.ItemHeader, env); ok {
			members = append(members, h)
		}
	}
	c.decls.GetImpl(ih).Members = members
}

func (c *checker) collectStorage(it *ast.StorageItem) {
	if c.storage.IsValid() {
		first := c.decls.GetStorage(c.storage).Span
		c.errorf(diag.SemaDuplicateDeclaration, it.Span, "storage is declared more than once").
			WithNote(first, "first storage declaration here").
			Emit()
		return
	}
	st := decl.Storage{Span: it.Span}
	names := make([]ast.Ident, 0, len(it.Fields))
	for _, f := range it.Fields {
		names = append(names, f.Name)
		st.Fields = append(st.Fields, decl.StorageField{Name: c.intern(f.Name.Name), Span: f.Span, Init: f.Init})
	}
	c.uniqueNames("storage field", names)
	c.storage = c.decls.InsertStorage(st)
	c.storageAST = it
}

// isIgnoredName reports names exempt from the unused-variable warning.
func isIgnoredName(name string) bool {
	return strings.HasPrefix(name, "_")
}
