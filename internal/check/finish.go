package check

import (
	"errors"
	"fmt"

	"vela/internal/decl"
	"vela/internal/diag"
)

// finish specializes every concrete generic use recorded during
// resolution. Uses whose arguments are still unknown are reported; uses
// inside generic code or touching the error sentinel are skipped.
func (c *checker) finish() error {
	for i := range c.pending {
		if err := c.cancelled(); err != nil {
			return err
		}
		inst := &c.pending[i]
		unresolved, skip := false, false
		for j, a := range inst.args {
			a = c.ti.Resolve(a)
			inst.args[j] = a
			switch {
			case c.ti.HasPlaceholders(a):
				unresolved = true
			case c.ti.ContainsError(a), c.ti.ContainsGeneric(a):
				skip = true
			}
		}
		if unresolved {
			c.errorf(diag.SemaCannotInferType, inst.span, "cannot infer type arguments for `%s`", inst.name).Emit()
			for _, a := range inst.args {
				c.ti.Poison(a)
			}
			continue
		}
		if skip {
			continue
		}
		if err := c.specialize(inst); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) specialize(inst *instantiation) error {
	var err error
	switch inst.ref.Kind {
	case decl.KindStruct:
		h, _ := inst.ref.Struct()
		_, err = c.decls.MonomorphizeStruct(h, inst.args)
	case decl.KindEnum:
		h, _ := inst.ref.Enum()
		_, err = c.decls.MonomorphizeEnum(h, inst.args)
	case decl.KindFunction:
		h, _ := inst.ref.Function()
		_, err = c.decls.MonomorphizeFunction(h, inst.args)
	}
	if err == nil || errors.Is(err, decl.ErrArgCount) {
		// arity errors were reported when the type was resolved
		return nil
	}
	return fmt.Errorf("specialize %s: %w", inst.name, err)
}
