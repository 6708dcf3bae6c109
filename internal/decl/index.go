package decl

import "vela/internal/source"

// Scope names a namespace of the secondary index. The root scope holds
// top-level items; every struct, enum, trait, abi and impl opens its own
// scope for members.
type Scope struct {
	Owner Ref
}

// RootScope is the namespace of top-level declarations.
var RootScope = Scope{}

// ScopeOf returns the member namespace of r.
func ScopeOf(r Ref) Scope { return Scope{Owner: r} }

type scopedName struct {
	scope Scope
	name  source.StringID
}

// Declare records name -> r in scope. When the name is already taken the
// existing entry is kept and returned with ok=false.
func (e *Engine) Declare(scope Scope, name source.StringID, r Ref) (Ref, bool) {
	key := scopedName{scope: scope, name: name}
	if prev, exists := e.index[key]; exists {
		return prev, false
	}
	e.index[key] = r
	return r, true
}

// Lookup resolves name in exactly one scope; there is no parent chain.
func (e *Engine) Lookup(scope Scope, name source.StringID) (Ref, bool) {
	r, ok := e.index[scopedName{scope: scope, name: name}]
	return r, ok
}

// LookupFunction resolves a top-level function by name.
func (e *Engine) LookupFunction(name source.StringID) (FunctionHandle, bool) {
	r, ok := e.Lookup(RootScope, name)
	if !ok {
		return 0, false
	}
	return r.Function()
}
