package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// Pending collects the primitives of one statement that may touch several
// stores and transient fragments. Each store gets its own Registry; all
// fragment-targeted primitives share one fragment Registry.
type Pending struct {
	opt     Options
	stores  []*Registry
	byStore map[*tree.Data]*Registry
	frags   *Registry
}

// NewPending creates an empty pending set. opt is passed to every registry
// it creates.
func NewPending(opt Options) *Pending {
	return &Pending{opt: opt, byStore: make(map[*tree.Data]*Registry)}
}

// Add routes p to the registry of its target's store or to the fragment
// registry.
func (ps *Pending) Add(p Primitive) error {
	t := p.Target()
	if !t.resolved() {
		return types.State(fmt.Sprintf("add %s: target is not resolved", p.Kind()))
	}
	if !t.Persisted() {
		if ps.frags == nil {
			ps.frags = NewRegistry(SpaceFragment, ps.opt)
		}
		return ps.frags.AddPrimitive(p)
	}
	r, ok := ps.byStore[t.Data()]
	if !ok {
		r = NewRegistry(SpacePersisted, ps.opt)
		ps.byStore[t.Data()] = r
		ps.stores = append(ps.stores, r)
	}
	return r.AddPrimitive(p)
}

// Registries returns the store registries in the order their stores were
// first seen, followed by the fragment registry if there is one.
func (ps *Pending) Registries() []*Registry {
	out := append([]*Registry(nil), ps.stores...)
	if ps.frags != nil {
		out = append(out, ps.frags)
	}
	return out
}

// Len returns the number of buckets over all registries.
func (ps *Pending) Len() int {
	n := 0
	for _, r := range ps.Registries() {
		n += r.Len()
	}
	return n
}

// Apply checks the fragment registry first and then applies the store
// registries in registration order. It stops at the first error and returns
// the statistics accumulated so far.
func (ps *Pending) Apply() (Applied, error) {
	var total Applied
	if ps.frags != nil {
		st, err := ps.frags.Apply()
		total.Add(st)
		if err != nil {
			return total, err
		}
	}
	for _, r := range ps.stores {
		st, err := r.Apply()
		total.Add(st)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
