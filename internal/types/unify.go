package types

// Mismatch is returned by Unify when two types cannot be made equal. Both
// ids are resolved as far as bindings allow at the time of failure.
type Mismatch struct {
	Expected TypeID
	Found    TypeID
}

func (m *Mismatch) Error() string {
	return "type mismatch"
}

type trailEntry struct {
	slot uint32
	prev TypeID
}

// find returns the representative of id. Bound placeholders are followed
// and the chain is compressed.
func (in *Interner) find(id TypeID) TypeID {
	root := id
	for {
		t, ok := in.Lookup(root)
		if !ok || t.Kind != KindPlaceholder {
			break
		}
		next := in.parent[t.Index]
		if next == NoTypeID {
			break
		}
		root = next
	}
	// path compression
	for id != root {
		t := in.types[id]
		next := in.parent[t.Index]
		if next != root {
			in.setParent(t.Index, root)
		}
		id = next
	}
	return root
}

func (in *Interner) setParent(slot uint32, to TypeID) {
	if in.inUnify {
		in.trail = append(in.trail, trailEntry{slot: slot, prev: in.parent[slot]})
	}
	in.parent[slot] = to
}

// Unify makes expected and found equal or returns *Mismatch. A failed
// unification leaves no bindings behind.
func (in *Interner) Unify(expected, found TypeID) error {
	in.inUnify = true
	in.trail = in.trail[:0]
	ok := in.unify(expected, found)
	if !ok {
		for i := len(in.trail) - 1; i >= 0; i-- {
			e := in.trail[i]
			in.parent[e.slot] = e.prev
		}
	}
	in.trail = in.trail[:0]
	in.inUnify = false
	if ok {
		return nil
	}
	return &Mismatch{Expected: in.Resolve(expected), Found: in.Resolve(found)}
}

func (in *Interner) unify(a, b TypeID) bool {
	a, b = in.find(a), in.find(b)
	if a == b {
		return true
	}
	ta, tb := in.types[a], in.types[b]

	if ta.Kind == KindPlaceholder && tb.Kind == KindPlaceholder {
		// keep the stricter class at the root
		if in.class[ta.Index] == ClassInt {
			in.setParent(tb.Index, a)
		} else {
			in.setParent(ta.Index, b)
		}
		return true
	}
	if ta.Kind == KindPlaceholder {
		return in.bind(a, ta, b, tb)
	}
	if tb.Kind == KindPlaceholder {
		return in.bind(b, tb, a, ta)
	}

	if ta.Kind == KindError || tb.Kind == KindError {
		return true
	}
	if ta.Kind == KindNever || tb.Kind == KindNever {
		return true
	}
	if ta.Kind != tb.Kind {
		return false
	}

	switch ta.Kind {
	case KindStruct, KindEnum:
		if ta.Decl != tb.Decl {
			return false
		}
		return in.unifyLists(ta.Args, tb.Args)
	case KindTuple:
		return in.unifyLists(ta.Args, tb.Args)
	case KindArray:
		return ta.Count == tb.Count && in.unify(ta.Elem, tb.Elem)
	case KindRef:
		return ta.Mutable == tb.Mutable && in.unify(ta.Elem, tb.Elem)
	default:
		// primitives and generics are equal only by identity
		return false
	}
}

func (in *Interner) unifyLists(a, b ListID) bool {
	if a == b {
		return true
	}
	la, lb := in.lists[a], in.lists[b]
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if !in.unify(la[i], lb[i]) {
			return false
		}
	}
	return true
}

// bind attaches placeholder p to the non-placeholder t.
func (in *Interner) bind(p TypeID, pt Type, t TypeID, tt Type) bool {
	if in.class[pt.Index] == ClassInt {
		switch tt.Kind {
		case KindUint, KindError, KindNever:
		default:
			return false
		}
	}
	if tt.Kind == KindNever {
		// a diverging branch says nothing about the placeholder
		return true
	}
	if in.occurs(p, t) {
		return false
	}
	in.setParent(pt.Index, t)
	return true
}

func (in *Interner) occurs(p, t TypeID) bool {
	t = in.find(t)
	if t == p {
		return true
	}
	tt := in.types[t]
	switch tt.Kind {
	case KindStruct, KindEnum, KindTuple:
		for _, el := range in.lists[tt.Args] {
			if in.occurs(p, el) {
				return true
			}
		}
	case KindArray, KindRef:
		return in.occurs(p, tt.Elem)
	}
	return false
}

// DefaultInt binds id to def when it is still an unbound integer literal
// placeholder. It reports whether a binding was made.
func (in *Interner) DefaultInt(id, def TypeID) bool {
	root := in.find(id)
	t := in.types[root]
	if t.Kind != KindPlaceholder || in.class[t.Index] != ClassInt {
		return false
	}
	in.parent[t.Index] = def
	return true
}
