package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// base carries the fields every primitive shares.
type base struct {
	kind   Kind
	target Target
}

func (b base) Kind() Kind     { return b.kind }
func (b base) Target() Target { return b.target }
func (b base) String() string { return b.kind.String() + " " + b.target.String() }

// sameTarget reports whether a and b identify the same node.
func sameTarget(a, b Target) bool {
	return a.data == b.data && a.frag == b.frag && a.Key() == b.Key()
}

// mergeable returns an error unless other has the same kind and target.
func (b base) mergeable(other Primitive) error {
	if other.Kind() != b.kind || !sameTarget(other.Target(), b.target) {
		return types.Conflict(fmt.Sprintf("cannot merge %s %s into %s", other.Kind(), other.Target(), b))
	}
	return nil
}

// requireStore returns a state error for primitives without a backing store.
func (b base) requireStore() error {
	if !b.target.Persisted() {
		return types.State(fmt.Sprintf("%s: target has no store", b))
	}
	return nil
}
