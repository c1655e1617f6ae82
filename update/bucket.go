package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// Bucket holds the primitives registered for one target: at most one per
// kind. A second primitive of a kind already present is merged into the slot.
type Bucket struct {
	slots [NumKinds]Primitive
}

// Get returns the primitive in the slot for k, or nil.
func (b *Bucket) Get(k Kind) Primitive {
	if int(k) >= NumKinds {
		return nil
	}
	return b.slots[k]
}

// Len returns the number of non-empty slots.
func (b *Bucket) Len() int {
	n := 0
	for _, p := range b.slots {
		if p != nil {
			n++
		}
	}
	return n
}

// add stores p in its slot or merges it into the slot's occupant.
// merged reports whether a merge happened.
func (b *Bucket) add(p Primitive) (merged bool, err error) {
	k := p.Kind()
	if int(k) >= NumKinds {
		return false, types.State(fmt.Sprintf("primitive has unknown kind %d", k))
	}
	cur := b.slots[k]
	if cur == nil {
		b.slots[k] = p
		return false, nil
	}
	out, err := cur.Merge(p)
	if err != nil {
		return true, err
	}
	b.slots[k] = out
	return true, nil
}

// each calls fn for every non-empty slot in kind order, stopping at the
// first error.
func (b *Bucket) each(fn func(Primitive) error) error {
	for _, p := range b.slots {
		if p == nil {
			continue
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
