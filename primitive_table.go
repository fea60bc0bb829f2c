package lambdust

import "sync"

// PrimitiveTable is the process-wide registry of built-in procedures,
// installed into a fresh global SharedFrame at Evaluator construction
// time (spec §6). Kept as its own table, rather than only living as
// bindings in the global frame, so an embedder can introspect the
// available primitive set (arity, effect tags) without walking the
// environment.
type PrimitiveTable struct {
	mu    sync.RWMutex
	prims map[string]*Primitive
}

func NewPrimitiveTable() *PrimitiveTable {
	return &PrimitiveTable{prims: make(map[string]*Primitive)}
}

func (t *PrimitiveTable) Register(p *Primitive) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prims[p.Name] = p
}

func (t *PrimitiveTable) Lookup(name string) (*Primitive, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.prims[name]
	return p, ok
}

// InstallInto defines every registered primitive in env, so ordinary
// VarRefNode lookups resolve them exactly like any other global.
func (t *PrimitiveTable) InstallInto(env *SharedFrame) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for name, p := range t.prims {
		env.Define(Intern(name), p)
	}
}

// NewStandardPrimitives builds the table described in primitive.go's
// registerXxx functions: control ops, numeric tower, pairs/lists,
// predicates/equality, and the promise/values constructors.
func NewStandardPrimitives() *PrimitiveTable {
	t := NewPrimitiveTable()
	registerControlPrimitives(t)
	registerNumericPrimitives(t)
	registerPairPrimitives(t)
	registerPredicatePrimitives(t)
	registerContainerPrimitives(t)
	return t
}
