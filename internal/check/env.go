package check

import "vela/internal/types"

// genericEnv maps generic parameter names to their types. Function
// environments chain to the environment of their impl or trait.
type genericEnv struct {
	parent *genericEnv
	names  map[string]types.TypeID
	// self is the Self type; NoTypeID outside impls, traits and abis.
	self types.TypeID
}

func newEnv(parent *genericEnv) *genericEnv {
	return &genericEnv{parent: parent, names: make(map[string]types.TypeID)}
}

func (g *genericEnv) lookup(name string) (types.TypeID, bool) {
	for e := g; e != nil; e = e.parent {
		if id, ok := e.names[name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

func (g *genericEnv) selfType() types.TypeID {
	for e := g; e != nil; e = e.parent {
		if e.self != types.NoTypeID {
			return e.self
		}
	}
	return types.NoTypeID
}
