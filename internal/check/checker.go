package check

import (
	"context"
	"fmt"

	"vela/internal/ast"
	"vela/internal/decl"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/source"
	"vela/internal/types"
)

// checker carries the state of one run. It is also the diag.Reporter of
// the run so that the verdict is counted independently of the bag limit.
type checker struct {
	ctx    context.Context
	eng    *engines.Engines
	decls  *decl.Engine
	ti     *types.Interner
	b      types.Builtins
	bag    *diag.Bag
	opts   Options
	errors int

	// unresolved names already reported in this run
	unresolved map[string]struct{}

	// syntax behind collected declarations
	structs   map[decl.StructHandle]structSource
	enums     map[decl.EnumHandle]enumSource
	impls     map[decl.ImplHandle]implSource
	consts    map[decl.ConstantHandle]*ast.ConstItem
	fnAST     map[decl.FunctionHandle]*fnSource
	traitSelf map[decl.TraitHandle]types.TypeID

	storage    decl.StorageHandle
	storageAST *ast.StorageItem

	// generic uses waiting for their arguments to be inferred
	pending []instantiation
}

type structSource struct {
	item *ast.StructItem
	env  *genericEnv
}

type enumSource struct {
	item *ast.EnumItem
	env  *genericEnv
}

type implSource struct {
	item *ast.ImplItem
	env  *genericEnv
}

// fnSource is the syntax of a function. body is nil for signatures.
type fnSource struct {
	sig  *ast.FnSig
	body *ast.Block
	env  *genericEnv
}

func newChecker(ctx context.Context, eng *engines.Engines, bag *diag.Bag, opts Options) *checker {
	return &checker{
		ctx:        ctx,
		eng:        eng,
		decls:      eng.Decls,
		ti:         eng.Types,
		b:          eng.Types.Builtins(),
		bag:        bag,
		opts:       opts,
		unresolved: make(map[string]struct{}),
		structs:    make(map[decl.StructHandle]structSource),
		enums:      make(map[decl.EnumHandle]enumSource),
		impls:      make(map[decl.ImplHandle]implSource),
		consts:     make(map[decl.ConstantHandle]*ast.ConstItem),
		fnAST:      make(map[decl.FunctionHandle]*fnSource),
		traitSelf:  make(map[decl.TraitHandle]types.TypeID),
	}
}

// Report implements diag.Reporter.
func (c *checker) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev == diag.SevError {
		c.errors++
	}
	diag.BagReporter{Bag: c.bag}.Report(code, sev, primary, msg, notes, fixes)
}

func (c *checker) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(c, code, sp, fmt.Sprintf(format, args...))
}

// unresolvedName reports name once per run and returns the error sentinel.
func (c *checker) unresolvedName(name string, sp source.Span, what string) types.TypeID {
	if _, seen := c.unresolved[name]; !seen {
		c.unresolved[name] = struct{}{}
		c.errorf(diag.SemaUnresolvedName, sp, "cannot find %s `%s` in this scope", what, name).Emit()
	}
	return c.b.Error
}

// mismatch reports a TypeMismatch unless either side already carries an
// error.
func (c *checker) mismatch(sp source.Span, m *types.Mismatch) {
	if c.ti.ContainsError(m.Expected) || c.ti.ContainsError(m.Found) {
		return
	}
	c.errorf(diag.SemaTypeMismatch, sp, "mismatched types: expected `%s`, found `%s`",
		c.eng.FormatType(m.Expected), c.eng.FormatType(m.Found)).Emit()
}

// unify reports a mismatch at sp and returns whether unification succeeded.
func (c *checker) unify(sp source.Span, expected, found types.TypeID) bool {
	err := c.ti.Unify(expected, found)
	if err == nil {
		return true
	}
	if m, ok := err.(*types.Mismatch); ok {
		c.mismatch(sp, m)
	}
	return false
}

func (c *checker) intern(s string) source.StringID {
	return c.eng.Strings.Intern(s)
}

func (c *checker) name(id source.StringID) string {
	return c.eng.Strings.MustLookup(id)
}

// cancelled is polled between declarations.
func (c *checker) cancelled() error {
	return c.ctx.Err()
}
