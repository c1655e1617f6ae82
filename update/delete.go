package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

type deletePrim struct {
	base
}

// NewDelete removes t and its subtree.
func NewDelete(t Target) Primitive {
	return &deletePrim{base: base{kind: KindDelete, target: t}}
}

// Merge keeps a single delete; deleting a node twice is deleting it once.
func (p *deletePrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *deletePrim) Check() error {
	if err := p.target.alive(); err != nil {
		return err
	}
	if p.target.Persisted() && p.target.kind() == types.NodeDocument {
		return types.Constraint(fmt.Sprintf("%s: cannot delete the document node", p))
	}
	return nil
}

// Apply deletes the target unless an earlier slot of the same bucket
// (ReplaceNode) already removed it.
func (p *deletePrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	if !p.target.present() {
		return nil
	}
	if err := p.target.data.Delete(p.target.pre); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
