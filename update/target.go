package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// Space is the identity space of a target: store positions or fragment ids.
type Space uint8

const (
	// SpacePersisted targets are nodes of a tree.Data, keyed by position.
	SpacePersisted Space = iota
	// SpaceFragment targets are transient fragments, keyed by fragment id.
	SpaceFragment
)

// String returns the space name.
func (s Space) String() string {
	if s == SpaceFragment {
		return "fragment"
	}
	return "persisted"
}

// Target identifies the node a primitive applies to. It is a tagged
// identity: either a store node (position, stable id and parent position
// captured when the target was resolved) or a fragment.
type Target struct {
	data   *tree.Data
	pre    int
	id     int
	parent int
	frag   *tree.Fragment
}

// StoreTarget resolves the node currently at pre in d.
func StoreTarget(d *tree.Data, pre int) (Target, error) {
	if d == nil || !d.Valid(pre) {
		return Target{}, &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf("no node at pre %d", pre)}
	}
	return Target{data: d, pre: pre, id: d.ID(pre), parent: d.Parent(pre)}, nil
}

// StoreTargetByID resolves the node with the given stable id in d.
func StoreTargetByID(d *tree.Data, id int) (Target, error) {
	pre, ok := d.PreOf(id)
	if !ok {
		return Target{}, &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf("no node with id %d", id)}
	}
	return StoreTarget(d, pre)
}

// FragmentTarget wraps a transient fragment. A nil fragment yields an
// unresolved target that registries reject.
func FragmentTarget(f *tree.Fragment) Target {
	return Target{frag: f, pre: -1, parent: -1}
}

// Space returns the identity space of the target.
func (t Target) Space() Space {
	if t.frag != nil {
		return SpaceFragment
	}
	return SpacePersisted
}

// resolved reports whether the target names a store node or a fragment. The
// zero Target does neither.
func (t Target) resolved() bool { return t.frag != nil || t.data != nil }

// Persisted reports whether the target is backed by a store.
func (t Target) Persisted() bool { return t.frag == nil && t.data != nil }

// Key returns the registry key: the position for store nodes, the fragment
// id for fragments.
func (t Target) Key() int {
	if t.frag != nil {
		return t.frag.ID()
	}
	return t.pre
}

// Data returns the backing store, nil for fragments.
func (t Target) Data() *tree.Data { return t.data }

// Fragment returns the fragment, nil for store nodes.
func (t Target) Fragment() *tree.Fragment { return t.frag }

// Pre returns the position captured at resolution, -1 for fragments.
func (t Target) Pre() int { return t.pre }

func (t Target) String() string {
	if t.frag != nil {
		return fmt.Sprintf("fragment %d", t.frag.ID())
	}
	return fmt.Sprintf("pre %d", t.pre)
}

// present reports whether the captured node still sits at its position.
func (t Target) present() bool {
	if t.frag != nil {
		return true
	}
	return t.data != nil && t.data.Valid(t.pre) && t.data.ID(t.pre) == t.id
}

// alive returns a constraint violation if the target was removed or moved
// since it was resolved.
func (t Target) alive() error {
	if !t.present() {
		return types.Constraint(fmt.Sprintf("target node %d no longer at %s", t.id, t))
	}
	return nil
}

// kind returns the node kind of a present target.
func (t Target) kind() types.NodeKind {
	if t.frag != nil {
		return t.frag.Kind()
	}
	return t.data.Kind(t.pre)
}

// name returns the node name of a present target.
func (t Target) name() string {
	if t.frag != nil {
		return t.frag.Name()
	}
	return t.data.NameAt(t.pre)
}

// hasParent reports whether the target is attached to a parent node.
func (t Target) hasParent() bool {
	if t.frag != nil {
		return t.frag.Parent() != nil
	}
	return t.parent >= 0
}

// attrNames returns the names of the target's attributes.
func (t Target) attrNames() []string {
	if t.frag != nil {
		out := make([]string, 0, len(t.frag.Attributes()))
		for _, a := range t.frag.Attributes() {
			out = append(out, a.Name())
		}
		return out
	}
	attrs := t.data.Attributes(t.pre)
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, t.data.NameAt(a))
	}
	return out
}

// siblingAttrNames returns the names of the other attributes of the
// target's parent element. Only meaningful for attribute targets.
func (t Target) siblingAttrNames() []string {
	var out []string
	if t.frag != nil {
		p := t.frag.Parent()
		if p == nil {
			return nil
		}
		for _, a := range p.Attributes() {
			if a != t.frag {
				out = append(out, a.Name())
			}
		}
		return out
	}
	if t.parent < 0 {
		return nil
	}
	for _, a := range t.data.Attributes(t.parent) {
		if a != t.pre {
			out = append(out, t.data.NameAt(a))
		}
	}
	return out
}
