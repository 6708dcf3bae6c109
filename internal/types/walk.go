package types

// Resolve returns id with every bound placeholder substituted, re-interned.
// Unbound placeholders stay in place.
func (in *Interner) Resolve(id TypeID) TypeID {
	return in.rebuild(id, nil)
}

// Substitute replaces generic parameters according to subst and resolves
// placeholders on the way.
func (in *Interner) Substitute(id TypeID, subst map[TypeID]TypeID) TypeID {
	return in.rebuild(id, subst)
}

func (in *Interner) rebuild(id TypeID, subst map[TypeID]TypeID) TypeID {
	if id == NoTypeID {
		return NoTypeID
	}
	id = in.find(id)
	t := in.types[id]
	switch t.Kind {
	case KindGeneric:
		if r, ok := subst[id]; ok {
			return in.rebuild(r, nil)
		}
		return id
	case KindStruct, KindEnum, KindTuple:
		old := in.lists[t.Args]
		if len(old) == 0 {
			return id
		}
		elems := make([]TypeID, len(old))
		changed := false
		for i, el := range old {
			elems[i] = in.rebuild(el, subst)
			changed = changed || elems[i] != el
		}
		if !changed {
			return id
		}
		t.Args = in.InternList(elems)
		return in.Intern(t)
	case KindArray, KindRef:
		elem := in.rebuild(t.Elem, subst)
		if elem == t.Elem {
			return id
		}
		t.Elem = elem
		return in.Intern(t)
	default:
		return id
	}
}

// Poison binds every unbound placeholder reachable from id to the error
// sentinel, so later uses do not report again.
func (in *Interner) Poison(id TypeID) {
	in.walk(id, func(root TypeID, t Type) bool {
		if t.Kind == KindPlaceholder {
			in.parent[t.Index] = in.builtins.Error
		}
		return true
	})
}

// HasPlaceholders reports whether an unbound placeholder is reachable.
func (in *Interner) HasPlaceholders(id TypeID) bool {
	found := false
	in.walk(id, func(_ TypeID, t Type) bool {
		if t.Kind == KindPlaceholder {
			found = true
		}
		return !found
	})
	return found
}

// ContainsError reports whether the error sentinel is reachable.
func (in *Interner) ContainsError(id TypeID) bool {
	found := false
	in.walk(id, func(_ TypeID, t Type) bool {
		if t.Kind == KindError {
			found = true
		}
		return !found
	})
	return found
}

// ContainsGeneric reports whether a generic parameter is reachable.
func (in *Interner) ContainsGeneric(id TypeID) bool {
	found := false
	in.walk(id, func(_ TypeID, t Type) bool {
		if t.Kind == KindGeneric {
			found = true
		}
		return !found
	})
	return found
}

// walk visits id and its components after following bindings. visit
// returning false stops the walk.
func (in *Interner) walk(id TypeID, visit func(TypeID, Type) bool) bool {
	if id == NoTypeID {
		return true
	}
	root := in.find(id)
	t := in.types[root]
	if !visit(root, t) {
		return false
	}
	switch t.Kind {
	case KindStruct, KindEnum, KindTuple:
		for _, el := range in.lists[t.Args] {
			if !in.walk(el, visit) {
				return false
			}
		}
	case KindArray, KindRef:
		return in.walk(t.Elem, visit)
	}
	return true
}
