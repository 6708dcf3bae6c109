package check

import (
	"fmt"
	"strconv"
	"strings"

	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// checkExpr infers e with want as a hint and unifies the result with want.
// A mismatch is reported once and the error sentinel is returned.
func (c *checker) checkExpr(fc *fnCtx, e ast.Expr, want types.TypeID) types.TypeID {
	t := c.inferExpr(fc, e, want)
	if want == types.NoTypeID {
		return t
	}
	if !c.unify(e.ExprSpan(), want, t) {
		return c.b.Error
	}
	return t
}

// inferExpr computes the type of e. hint may be NoTypeID; it only guides
// literals and constructors and is never enforced here.
func (c *checker) inferExpr(fc *fnCtx, e ast.Expr, hint types.TypeID) types.TypeID {
	switch e := e.(type) {
	case nil:
		return c.b.Error
	case *ast.IntLit:
		return c.intLit(fc, e, hint)
	case *ast.BoolLit:
		return c.b.Bool
	case *ast.StrLit:
		return c.b.Str
	case *ast.ParenExpr:
		return c.inferExpr(fc, e.X, hint)
	case *ast.BlockExpr:
		return c.block(fc, e.Block, hint)
	case *ast.PathExpr:
		return c.pathValue(fc, e)
	case *ast.SelfExpr:
		if l := fc.lookup("self"); l != nil {
			l.used = true
			return l.ty
		}
		c.errorf(diag.SemaError, e.Span, "`self` is only available in methods").Emit()
		return c.b.Error
	case *ast.StorageExpr:
		c.errorf(diag.SemaError, e.Span, "`storage` can only be used to access its fields").Emit()
		return c.b.Error
	case *ast.CallExpr:
		return c.call(fc, e)
	case *ast.MethodCallExpr:
		return c.methodCall(fc, e)
	case *ast.FieldExpr:
		return c.field(fc, e)
	case *ast.IndexExpr:
		return c.index(fc, e)
	case *ast.StructLit:
		return c.structLit(fc, e)
	case *ast.TupleExpr:
		var hints []types.TypeID
		if hint != types.NoTypeID {
			if root, t := c.ti.Shallow(hint); t.Kind == types.KindTuple {
				hints = c.ti.Args(root)
			}
		}
		elems := make([]types.TypeID, len(e.Elems))
		for i, el := range e.Elems {
			h := types.NoTypeID
			if len(hints) == len(e.Elems) {
				h = hints[i]
			}
			elems[i] = c.checkExpr(fc, el, h)
		}
		return c.ti.Tuple(elems)
	case *ast.ArrayExpr:
		return c.arrayLit(fc, e, hint)
	case *ast.UnaryExpr:
		return c.unary(fc, e, hint)
	case *ast.BinaryExpr:
		return c.binary(fc, e, hint)
	case *ast.IfExpr:
		return c.ifExpr(fc, e, hint)
	}
	panic(fmt.Sprintf("check: unexpected expression %T", e))
}

func (c *checker) intLit(fc *fnCtx, e *ast.IntLit, hint types.TypeID) types.TypeID {
	v, err := e.Value()
	if err != nil {
		c.errorf(diag.SemaError, e.Span, "integer literal `%s` is too large", e.Text).Emit()
		return c.b.Error
	}
	if hint != types.NoTypeID {
		if root, t := c.ti.Shallow(hint); t.Kind == types.KindUint {
			if t.Width < 64 && v>>uint(t.Width) != 0 {
				c.errorf(diag.SemaError, e.Span, "literal `%s` does not fit in `%s`", e.Text, c.eng.FormatType(root)).Emit()
			}
			return root
		}
	}
	p := c.ti.FreshInt()
	fc.ints = append(fc.ints, p)
	return p
}

// pathValue resolves a path used as a value: a local, a constant or a unit
// enum variant.
func (c *checker) pathValue(fc *fnCtx, e *ast.PathExpr) types.TypeID {
	segs := e.Segments
	switch len(segs) {
	case 1:
		name := segs[0].Name
		if l := fc.lookup(name); l != nil {
			l.used = true
			return l.ty
		}
		r, ok := c.decls.Lookup(decl.RootScope, c.intern(name))
		if !ok {
			return c.unresolvedName(name, segs[0].Span, "value")
		}
		if h, ok := r.Constant(); ok {
			return c.decls.GetConstant(h).Type
		}
		if r.Kind == decl.KindFunction {
			c.errorf(diag.SemaError, e.Span, "function `%s` must be called", name).Emit()
		} else {
			c.errorf(diag.SemaError, e.Span, "expected value, found %s `%s`", r.Kind, name).Emit()
		}
		return c.b.Error
	case 2:
		owner, ok := c.typeName(fc, segs[0])
		if !ok {
			return c.b.Error
		}
		if owner.kind == decl.KindEnum {
			v := c.decls.GetEnum(decl.EnumHandle(owner.index))
			i := v.VariantIndex(c.intern(segs[1].Name))
			if i < 0 {
				return c.unresolvedName(segs[0].Name+"::"+segs[1].Name, segs[1].Span, "variant")
			}
			if v.Variants[i].Type != c.b.Unit {
				c.errorf(diag.SemaArgumentCount, e.Span, "variant `%s::%s` takes a value", segs[0].Name, segs[1].Name).Emit()
			}
			return owner.ty
		}
		c.errorf(diag.SemaError, e.Span, "associated function `%s::%s` must be called", segs[0].Name, segs[1].Name).Emit()
		return c.b.Error
	}
	c.errorf(diag.SemaError, e.Span, "unsupported path `%s`", joinPath(segs)).Emit()
	return c.b.Error
}

func joinPath(segs []ast.Ident) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Name
	}
	return strings.Join(parts, "::")
}

// typeRef is a struct or enum named in expression position, applied to
// fresh arguments (or to the impl's own arguments for Self).
type typeRef struct {
	kind  decl.Kind
	index uint32
	ty    types.TypeID
}

func (c *checker) typeName(fc *fnCtx, id ast.Ident) (typeRef, bool) {
	if id.Name == "Self" {
		self := fc.env.selfType()
		if self == types.NoTypeID {
			c.errorf(diag.SemaError, id.Span, "`Self` is only available in impls, traits and abis").Emit()
			return typeRef{}, false
		}
		root, t := c.ti.Shallow(self)
		switch t.Kind {
		case types.KindStruct:
			return typeRef{kind: decl.KindStruct, index: t.Decl, ty: root}, true
		case types.KindEnum:
			return typeRef{kind: decl.KindEnum, index: t.Decl, ty: root}, true
		case types.KindError:
			return typeRef{}, false
		}
		return typeRef{ty: root}, true
	}
	r, ok := c.decls.Lookup(decl.RootScope, c.intern(id.Name))
	if !ok {
		if _, isGeneric := fc.env.lookup(id.Name); !isGeneric {
			c.unresolvedName(id.Name, id.Span, "type")
			return typeRef{}, false
		}
		c.errorf(diag.SemaError, id.Span, "generic parameter `%s` has no associated items", id.Name).Emit()
		return typeRef{}, false
	}
	switch r.Kind {
	case decl.KindStruct:
		h, _ := r.Struct()
		args := c.freshArgs(len(c.decls.GetStruct(h).Generics))
		c.instantiate(r, args, id.Span, id.Name)
		return typeRef{kind: r.Kind, index: r.Index, ty: c.ti.Struct(r.Index, args)}, true
	case decl.KindEnum:
		h, _ := r.Enum()
		args := c.freshArgs(len(c.decls.GetEnum(h).Generics))
		c.instantiate(r, args, id.Span, id.Name)
		return typeRef{kind: r.Kind, index: r.Index, ty: c.ti.Enum(r.Index, args)}, true
	}
	c.errorf(diag.SemaError, id.Span, "expected type, found %s `%s`", r.Kind, id.Name).Emit()
	return typeRef{}, false
}

func (c *checker) freshArgs(n int) []types.TypeID {
	if n == 0 {
		return nil
	}
	out := make([]types.TypeID, n)
	for i := range out {
		out[i] = c.ti.Fresh()
	}
	return out
}

// argSubst maps the generic parameters of a struct or enum to the arguments
// of the applied type root.
func (c *checker) argSubst(generics []types.TypeID, root types.TypeID) map[types.TypeID]types.TypeID {
	if len(generics) == 0 {
		return nil
	}
	args := c.ti.Args(root)
	subst := make(map[types.TypeID]types.TypeID, len(generics))
	for i, g := range generics {
		if i < len(args) {
			subst[g] = args[i]
		}
	}
	return subst
}

// deref follows references and placeholder bindings.
func (c *checker) deref(id types.TypeID) (types.TypeID, types.Type) {
	root, t := c.ti.Shallow(id)
	for t.Kind == types.KindRef {
		root, t = c.ti.Shallow(t.Elem)
	}
	return root, t
}

func (c *checker) field(fc *fnCtx, e *ast.FieldExpr) types.TypeID {
	name := e.Field.Name
	if _, ok := e.Recv.(*ast.StorageExpr); ok {
		if !c.storage.IsValid() {
			c.errorf(diag.SemaUnresolvedName, e.Recv.ExprSpan(), "no storage is declared").Emit()
			return c.b.Error
		}
		st := c.decls.GetStorage(c.storage)
		i := st.FieldIndex(c.intern(name))
		if i < 0 {
			return c.unresolvedName("storage."+name, e.Field.Span, "storage field")
		}
		return st.Fields[i].Type
	}
	recv := c.inferExpr(fc, e.Recv, types.NoTypeID)
	root, t := c.deref(recv)
	switch t.Kind {
	case types.KindError:
		return c.b.Error
	case types.KindPlaceholder:
		c.errorf(diag.SemaCannotInferType, e.Recv.ExprSpan(), "type annotations needed before accessing `%s`", name).Emit()
		return c.b.Error
	case types.KindTuple:
		elems := c.ti.Args(root)
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(elems) {
			return elems[i]
		}
	case types.KindStruct:
		s := c.decls.GetStruct(decl.StructHandle(t.Decl))
		if i := s.FieldIndex(c.intern(name)); i >= 0 {
			return c.ti.Substitute(s.Fields[i].Type, c.argSubst(s.Generics, root))
		}
	}
	c.errorf(diag.SemaUnresolvedName, e.Field.Span, "no field `%s` on type `%s`", name, c.eng.FormatType(root)).Emit()
	return c.b.Error
}

func (c *checker) index(fc *fnCtx, e *ast.IndexExpr) types.TypeID {
	x := c.inferExpr(fc, e.X, types.NoTypeID)
	c.checkExpr(fc, e.Index, c.b.U64)
	root, t := c.deref(x)
	switch t.Kind {
	case types.KindArray:
		return t.Elem
	case types.KindError:
		return c.b.Error
	case types.KindPlaceholder:
		c.errorf(diag.SemaCannotInferType, e.X.ExprSpan(), "type annotations needed before indexing").Emit()
		return c.b.Error
	}
	c.errorf(diag.SemaError, e.Span, "cannot index into a value of type `%s`", c.eng.FormatType(root)).Emit()
	return c.b.Error
}

func (c *checker) structLit(fc *fnCtx, e *ast.StructLit) types.TypeID {
	owner, ok := c.typeName(fc, e.Name)
	if ok && owner.kind != decl.KindStruct {
		c.errorf(diag.SemaError, e.Name.Span, "`%s` is not a struct", e.Name.Name).Emit()
		ok = false
	}
	if !ok {
		for _, f := range e.Fields {
			c.inferExpr(fc, f.Value, types.NoTypeID)
		}
		return c.b.Error
	}
	s := *c.decls.GetStruct(decl.StructHandle(owner.index))
	subst := c.argSubst(s.Generics, owner.ty)
	sname := c.name(s.Name)

	seen := make(map[source.StringID]source.Span, len(e.Fields))
	for _, f := range e.Fields {
		id := c.intern(f.Name.Name)
		i := s.FieldIndex(id)
		if i < 0 {
			c.errorf(diag.SemaUnresolvedName, f.Name.Span, "struct `%s` has no field named `%s`", sname, f.Name.Name).Emit()
			c.inferExpr(fc, f.Value, types.NoTypeID)
			continue
		}
		if first, dup := seen[id]; dup {
			c.errorf(diag.SemaError, f.Name.Span, "field `%s` specified more than once", f.Name.Name).
				WithNote(first, "first use of `"+f.Name.Name+"`").
				Emit()
		}
		seen[id] = f.Name.Span
		c.checkExpr(fc, f.Value, c.ti.Substitute(s.Fields[i].Type, subst))
	}
	var missing []string
	for _, f := range s.Fields {
		if _, ok := seen[f.Name]; !ok {
			missing = append(missing, "`"+c.name(f.Name)+"`")
		}
	}
	if len(missing) > 0 {
		c.errorf(diag.SemaMissingField, e.Name.Span, "missing field(s) %s in initializer of `%s`", strings.Join(missing, ", "), sname).Emit()
	}
	return owner.ty
}

func (c *checker) arrayLit(fc *fnCtx, e *ast.ArrayExpr, hint types.TypeID) types.TypeID {
	elem := types.NoTypeID
	if hint != types.NoTypeID {
		if _, t := c.ti.Shallow(hint); t.Kind == types.KindArray {
			elem = t.Elem
		}
	}
	for _, el := range e.Elems {
		t := c.checkExpr(fc, el, elem)
		if elem == types.NoTypeID {
			elem = t
		}
	}
	if elem == types.NoTypeID {
		elem = c.ti.Fresh()
	}
	return c.ti.Array(elem, uint64(len(e.Elems)))
}

// requireInt reports op applied to a non-integer type.
func (c *checker) requireInt(fc *fnCtx, sp source.Span, t types.TypeID, op string) bool {
	p := c.ti.FreshInt()
	fc.ints = append(fc.ints, p)
	if c.ti.Unify(p, t) == nil {
		return true
	}
	if !c.ti.ContainsError(t) {
		c.errorf(diag.SemaTypeMismatch, sp, "cannot apply `%s` to type `%s`", op, c.eng.FormatType(t)).Emit()
	}
	return false
}

func (c *checker) unary(fc *fnCtx, e *ast.UnaryExpr, hint types.TypeID) types.TypeID {
	switch e.Op {
	case ast.UnaryNot:
		c.checkExpr(fc, e.X, c.b.Bool)
		return c.b.Bool
	case ast.UnaryNeg:
		// every integer type is unsigned
		t := c.inferExpr(fc, e.X, hint)
		if !c.ti.ContainsError(t) {
			c.errorf(diag.SemaTypeMismatch, e.X.ExprSpan(), "cannot negate unsigned `%s`", c.eng.FormatType(t)).Emit()
		}
		return c.b.Error
	case ast.UnaryRef, ast.UnaryRefMut:
		inner := types.NoTypeID
		if hint != types.NoTypeID {
			if _, t := c.ti.Shallow(hint); t.Kind == types.KindRef {
				inner = t.Elem
			}
		}
		return c.ti.Ref(c.inferExpr(fc, e.X, inner), e.Op == ast.UnaryRefMut)
	case ast.UnaryDeref:
		x := c.inferExpr(fc, e.X, types.NoTypeID)
		root, t := c.ti.Shallow(x)
		switch t.Kind {
		case types.KindRef:
			return t.Elem
		case types.KindError:
			return c.b.Error
		}
		c.errorf(diag.SemaError, e.Span, "type `%s` cannot be dereferenced", c.eng.FormatType(root)).Emit()
		return c.b.Error
	}
	panic(fmt.Sprintf("check: unexpected unary operator %d", e.Op))
}

func (c *checker) binary(fc *fnCtx, e *ast.BinaryExpr, hint types.TypeID) types.TypeID {
	switch {
	case e.Op.IsLogical():
		c.checkExpr(fc, e.X, c.b.Bool)
		c.checkExpr(fc, e.Y, c.b.Bool)
		return c.b.Bool
	case e.Op.IsComparison():
		l := c.inferExpr(fc, e.X, types.NoTypeID)
		c.checkExpr(fc, e.Y, l)
		if e.Op != ast.BinEq && e.Op != ast.BinNe {
			c.requireInt(fc, e.X.ExprSpan(), l, e.Op.String())
		}
		return c.b.Bool
	default:
		l := c.inferExpr(fc, e.X, hint)
		c.checkExpr(fc, e.Y, l)
		if !c.requireInt(fc, e.X.ExprSpan(), l, e.Op.String()) {
			return c.b.Error
		}
		return l
	}
}

func (c *checker) ifExpr(fc *fnCtx, e *ast.IfExpr, hint types.TypeID) types.TypeID {
	c.checkExpr(fc, e.Cond, c.b.Bool)
	if e.Else == nil {
		c.block(fc, e.Then, c.b.Unit)
		return c.b.Unit
	}
	then := c.block(fc, e.Then, hint)
	thenNever := c.ti.IsKind(then, types.KindNever)
	want := hint
	if want == types.NoTypeID && !thenNever {
		want = then
	}
	els := c.checkExpr(fc, e.Else, want)
	if thenNever {
		return els
	}
	return then
}
