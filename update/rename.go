package update

import (
	"fmt"
	"slices"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

type renamePrim struct {
	base
	name string
}

// NewRename gives t a new name. The name is NFC-normalized.
func NewRename(t Target, name string) Primitive {
	return &renamePrim{base: base{kind: KindRename, target: t}, name: tree.NormalizeName(name)}
}

// Name returns the new name.
func (p *renamePrim) Name() string { return p.name }

func (p *renamePrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	return nil, types.Conflict(fmt.Sprintf("%s: node renamed more than once", p))
}

func (p *renamePrim) Check() error {
	t := p.target
	if err := t.alive(); err != nil {
		return err
	}
	if !t.kind().HasName() {
		return types.Constraint(fmt.Sprintf("%s: %s nodes have no name", p, t.kind()))
	}
	if !tree.ValidName(p.name) {
		return types.Constraint(fmt.Sprintf("%s: invalid name %q", p, p.name))
	}
	if t.kind() == types.NodeAttribute && slices.Contains(t.siblingAttrNames(), p.name) {
		return types.Constraint(fmt.Sprintf("%s: duplicate attribute %q", p, p.name))
	}
	return nil
}

func (p *renamePrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	if err := p.target.data.Rename(p.target.pre, p.name); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
