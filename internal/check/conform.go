package check

import (
	"strings"

	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// conform checks an `impl Trait for T` or `impl Abi for Contract` against
// the declared signatures.
func (c *checker) conform(ih decl.ImplHandle) {
	im := *c.decls.GetImpl(ih)
	if !im.Trait.IsValid() {
		return
	}
	var required, provided []decl.FunctionHandle
	subst := map[types.TypeID]types.TypeID{}
	traitName := c.name(im.TraitName)
	if th, ok := im.Trait.Trait(); ok {
		t := c.decls.GetTrait(th)
		required, provided = t.Required, t.Provided
		subst[c.traitSelf[th]] = im.Target
	} else if ah, ok := im.Trait.Abi(); ok {
		required = c.decls.GetAbi(ah).Methods
	}

	members := make(map[source.StringID]decl.FunctionHandle, len(im.Members))
	for _, m := range im.Members {
		members[c.decls.GetFunction(m).Name] = m
	}
	declared := make(map[source.StringID]bool, len(required)+len(provided))
	for _, p := range provided {
		declared[c.decls.GetFunction(p).Name] = true
	}

	var missing []string
	for _, rh := range required {
		req := c.decls.GetFunction(rh)
		declared[req.Name] = true
		mh, ok := members[req.Name]
		if !ok {
			missing = append(missing, "`"+c.name(req.Name)+"`")
			continue
		}
		c.compareSignature(traitName, rh, mh, subst)
	}
	for _, ph := range provided {
		if mh, ok := members[c.decls.GetFunction(ph).Name]; ok {
			c.compareSignature(traitName, ph, mh, subst)
		}
	}
	for _, m := range im.Members {
		fn := c.decls.GetFunction(m)
		if !declared[fn.Name] {
			c.errorf(diag.SemaError, fn.NameSpan, "method `%s` is not a member of `%s`", c.name(fn.Name), traitName).Emit()
		}
	}
	if len(missing) > 0 {
		c.errorf(diag.SemaIncompleteImplementation, im.TraitSpan,
			"not all items of `%s` are implemented, missing: %s", traitName, strings.Join(missing, ", ")).
			WithNote(im.TargetSpan, "implementation for `"+c.eng.FormatType(im.Target)+"`").
			Emit()
	}
}

// compareSignature reports SignatureMismatch when the member's signature
// differs from the declared one after substituting Self and mapping
// generics positionally.
func (c *checker) compareSignature(traitName string, declared, member decl.FunctionHandle, self map[types.TypeID]types.TypeID) {
	want := *c.decls.GetFunction(declared)
	got := *c.decls.GetFunction(member)

	subst := make(map[types.TypeID]types.TypeID, len(self)+len(want.Generics))
	for k, v := range self {
		subst[k] = v
	}
	ok := len(want.Generics) == len(got.Generics) && len(want.Params) == len(got.Params) && want.HasSelf() == got.HasSelf()
	if ok {
		for i, g := range want.Generics {
			subst[g] = got.Generics[i]
		}
		for i := range want.Params {
			if !c.sameType(c.ti.Substitute(want.Params[i].Type, subst), got.Params[i].Type) {
				ok = false
				break
			}
		}
		ok = ok && c.sameType(c.ti.Substitute(want.Ret, subst), got.Ret)
	}
	if ok {
		return
	}
	c.errorf(diag.SemaSignatureMismatch, got.NameSpan, "method `%s` has an incompatible signature for `%s`: expected `%s`, found `%s`",
		c.name(got.Name), traitName, c.formatSig(&want, subst), c.formatSig(&got, nil)).
		WithNote(want.NameSpan, "declared here").
		Emit()
}

// sameType compares resolved types; anything touching the error sentinel
// is accepted.
func (c *checker) sameType(a, b types.TypeID) bool {
	a, b = c.ti.Resolve(a), c.ti.Resolve(b)
	return a == b || c.ti.ContainsError(a) || c.ti.ContainsError(b)
}

func (c *checker) formatSig(fn *decl.Function, subst map[types.TypeID]types.TypeID) string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		ty := p.Type
		if subst != nil {
			ty = c.ti.Substitute(ty, subst)
		}
		if p.IsSelf {
			sb.WriteString(selfPrefix(c.ti, p.Type))
			continue
		}
		sb.WriteString(c.eng.FormatType(ty))
	}
	sb.WriteString(")")
	ret := fn.Ret
	if subst != nil {
		ret = c.ti.Substitute(ret, subst)
	}
	if ret != c.b.Unit {
		sb.WriteString(" -> ")
		sb.WriteString(c.eng.FormatType(ret))
	}
	return sb.String()
}

func selfPrefix(ti *types.Interner, ty types.TypeID) string {
	_, t := ti.Shallow(ty)
	if t.Kind != types.KindRef {
		return "self"
	}
	if t.Mutable {
		return "&mut self"
	}
	return "&self"
}
