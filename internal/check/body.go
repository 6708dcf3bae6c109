package check

import (
	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

type local struct {
	name string
	span source.Span
	ty   types.TypeID
	mut  bool
	used bool
	// param locals are exempt from the unused warning
	param bool
}

// fnCtx is the state of one body: a function, a constant initializer or a
// storage initializer.
type fnCtx struct {
	env *genericEnv
	// ret is NoTypeID outside functions.
	ret    types.TypeID
	scopes [][]*local
	locals []*local
	// ints are the integer literal placeholders created in this body.
	ints []types.TypeID
	// first pending instantiation created by this body
	pendingFrom int
}

func (c *checker) newCtx(env *genericEnv, ret types.TypeID) *fnCtx {
	return &fnCtx{env: env, ret: ret, pendingFrom: len(c.pending)}
}

func (fc *fnCtx) push() { fc.scopes = append(fc.scopes, nil) }

func (c *checker) pop(fc *fnCtx) {
	top := fc.scopes[len(fc.scopes)-1]
	fc.scopes = fc.scopes[:len(fc.scopes)-1]
	for _, l := range top {
		if l.used || l.param || isIgnoredName(l.name) {
			continue
		}
		diag.ReportWarning(c, diag.SemaUnusedVariable, l.span, "unused variable: `"+l.name+"`").
			WithFix("prefix it with an underscore", diag.FixEdit{Span: l.span, NewText: "_" + l.name}).
			Emit()
	}
}

func (fc *fnCtx) declare(l *local) {
	fc.scopes[len(fc.scopes)-1] = append(fc.scopes[len(fc.scopes)-1], l)
	fc.locals = append(fc.locals, l)
}

// lookup finds the innermost local; later declarations shadow earlier ones.
func (fc *fnCtx) lookup(name string) *local {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		scope := fc.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].name == name {
				return scope[j]
			}
		}
	}
	return nil
}

func (c *checker) resolveBody(r decl.Ref) {
	switch r.Kind {
	case decl.KindFunction:
		h, _ := r.Function()
		c.resolveFnBody(h)
	case decl.KindConstant:
		h, _ := r.Constant()
		k := *c.decls.GetConstant(h)
		fc := c.newCtx(nil, types.NoTypeID)
		fc.push()
		c.checkExpr(fc, k.Value, k.Type)
		c.pop(fc)
		c.settle(fc)
		if c.ti.HasPlaceholders(k.Type) {
			c.errorf(diag.SemaCannotInferType, k.NameSpan, "type annotations needed for constant `%s`", c.name(k.Name)).Emit()
			c.ti.Poison(k.Type)
		}
		c.decls.GetConstant(h).Type = c.ti.Resolve(k.Type)
	case decl.KindStorage:
		h, _ := r.Storage()
		st := *c.decls.GetStorage(h)
		for _, f := range st.Fields {
			if f.Init == nil {
				continue
			}
			fc := c.newCtx(nil, types.NoTypeID)
			fc.push()
			c.checkExpr(fc, f.Init, f.Type)
			c.pop(fc)
			c.settle(fc)
		}
	}
}

func (c *checker) resolveFnBody(h decl.FunctionHandle) {
	fn := *c.decls.GetFunction(h)
	if fn.Body == nil || fn.Origin.IsValid() {
		return
	}
	if fn.Test && c.opts.DisableTests {
		return
	}
	src := c.fnAST[h]
	fc := c.newCtx(src.env, fn.Ret)
	fc.push()
	for i, p := range fn.Params {
		ps := src.sig.Params[i]
		name := ps.Name.Name
		if p.IsSelf {
			name = "self"
		}
		fc.declare(&local{name: name, span: ps.Name.Span, ty: p.Type, mut: p.Mut, param: true})
	}
	body := fn.Body
	ty := c.block(fc, body, fn.Ret)
	if !c.ti.IsKind(ty, types.KindError) {
		sp := body.Span
		if body.Tail != nil {
			sp = body.Tail.ExprSpan()
		}
		c.unify(sp, fn.Ret, ty)
	}
	c.pop(fc)
	c.settle(fc)
}

// settle defaults integer literals to u64 and reports locals whose type
// could not be inferred. Pending generic uses created by the body are then
// resolved or reported.
func (c *checker) settle(fc *fnCtx) {
	for _, p := range fc.ints {
		c.ti.DefaultInt(p, c.b.U64)
	}
	for _, l := range fc.locals {
		if c.ti.HasPlaceholders(l.ty) {
			c.errorf(diag.SemaCannotInferType, l.span, "type annotations needed for `%s`", l.name).Emit()
			c.ti.Poison(l.ty)
		}
	}
	for i := fc.pendingFrom; i < len(c.pending); i++ {
		inst := &c.pending[i]
		for j, a := range inst.args {
			inst.args[j] = c.ti.Resolve(a)
		}
	}
}

// block checks b with an optional expected type and returns its type: the
// tail type, unit, or never when a statement diverges.
func (c *checker) block(fc *fnCtx, b *ast.Block, want types.TypeID) types.TypeID {
	fc.push()
	defer c.pop(fc)
	diverges := false
	for _, st := range b.Stmts {
		if c.stmt(fc, st) {
			diverges = true
		}
	}
	if b.Tail != nil {
		t := c.checkExpr(fc, b.Tail, want)
		if diverges {
			return c.b.Never
		}
		return t
	}
	if diverges {
		return c.b.Never
	}
	return c.b.Unit
}

// stmt checks one statement and reports whether it diverges.
func (c *checker) stmt(fc *fnCtx, st ast.Stmt) bool {
	switch st := st.(type) {
	case *ast.LetStmt:
		declared := types.NoTypeID
		if st.Type != nil {
			declared = c.resolveType(fc.env, st.Type)
		}
		ty := c.checkExpr(fc, st.Value, declared)
		if declared != types.NoTypeID {
			ty = declared
		}
		fc.declare(&local{name: st.Name.Name, span: st.Name.Span, ty: ty, mut: st.Mut})
		return c.ti.IsKind(ty, types.KindNever)
	case *ast.ExprStmt:
		return c.ti.IsKind(c.inferExpr(fc, st.X, types.NoTypeID), types.KindNever)
	case *ast.AssignStmt:
		c.checkPlace(fc, st.Target)
		target := c.inferExpr(fc, st.Target, types.NoTypeID)
		c.checkExpr(fc, st.Value, target)
		return false
	case *ast.ReturnStmt:
		if fc.ret == types.NoTypeID {
			c.errorf(diag.SemaError, st.Span, "`return` outside of a function").Emit()
			if st.Value != nil {
				c.inferExpr(fc, st.Value, types.NoTypeID)
			}
			return true
		}
		if st.Value == nil {
			c.unify(st.Span, fc.ret, c.b.Unit)
			return true
		}
		c.checkExpr(fc, st.Value, fc.ret)
		return true
	}
	return false
}

// checkPlace reports assignments through immutable bindings.
func (c *checker) checkPlace(fc *fnCtx, target ast.Expr) {
	root := target
	viaRef := false
walk:
	for {
		switch e := root.(type) {
		case *ast.FieldExpr:
			root = e.Recv
		case *ast.IndexExpr:
			root = e.X
		case *ast.ParenExpr:
			root = e.X
		case *ast.UnaryExpr:
			if e.Op != ast.UnaryDeref {
				break walk
			}
			viaRef = true
			root = e.X
		default:
			break walk
		}
	}
	var name string
	switch e := root.(type) {
	case *ast.StorageExpr:
		return
	case *ast.SelfExpr:
		name = "self"
	case *ast.PathExpr:
		if len(e.Segments) != 1 {
			c.errorf(diag.SemaError, target.ExprSpan(), "invalid left-hand side of assignment").Emit()
			return
		}
		name = e.Segments[0].Name
	default:
		c.errorf(diag.SemaError, target.ExprSpan(), "invalid left-hand side of assignment").Emit()
		return
	}
	l := fc.lookup(name)
	if l == nil || l.mut {
		return
	}
	if _, t := c.ti.Shallow(l.ty); t.Kind == types.KindRef {
		if t.Mutable {
			return
		}
		c.errorf(diag.SemaError, target.ExprSpan(), "cannot assign through `%s`, which is behind a `&` reference", name).Emit()
		return
	}
	if viaRef {
		return
	}
	c.errorf(diag.SemaError, target.ExprSpan(), "cannot assign twice to immutable variable `%s`", name).
		WithNote(l.span, "declared here without `mut`").
		Emit()
}
