package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// replaceConflict reports a second replacement of one kind on one node.
func replaceConflict(p, other Primitive) error {
	return types.Conflict(fmt.Sprintf("%s: node replaced more than once (%s)", p, other.Kind()))
}

type replaceNodePrim struct {
	base
	content []*tree.Fragment
}

// NewReplaceNode replaces t with nodes. An empty replacement deletes t.
func NewReplaceNode(t Target, nodes ...*tree.Fragment) Primitive {
	p := &replaceNodePrim{base: base{kind: KindReplaceNode, target: t}}
	for _, n := range nodes {
		if n != nil {
			p.content = append(p.content, n)
		}
	}
	return p
}

// Content returns the replacement nodes.
func (p *replaceNodePrim) Content() []*tree.Fragment { return p.content }

func (p *replaceNodePrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	return nil, replaceConflict(p, other)
}

func (p *replaceNodePrim) Check() error {
	t := p.target
	if err := t.alive(); err != nil {
		return err
	}
	if !t.hasParent() {
		return types.Constraint(fmt.Sprintf("%s: target has no parent", p))
	}
	attr := t.kind() == types.NodeAttribute
	if err := checkContent(p.content, attr); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if attr {
		if err := checkAttrNames(t.siblingAttrNames(), p.content); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Apply removes the target and inserts the replacement at its position.
func (p *replaceNodePrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	d, pre, parent := p.target.data, p.target.pre, p.target.parent
	if err := d.Delete(pre); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := d.Insert(pre, parent, p.content); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

type replaceValuePrim struct {
	base
	value string
}

// NewReplaceValue sets the string value of an attribute, text, comment or
// processing instruction.
func NewReplaceValue(t Target, value string) Primitive {
	return &replaceValuePrim{base: base{kind: KindReplaceValue, target: t}, value: value}
}

// Value returns the new value.
func (p *replaceValuePrim) Value() string { return p.value }

func (p *replaceValuePrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	return nil, replaceConflict(p, other)
}

func (p *replaceValuePrim) Check() error {
	if err := p.target.alive(); err != nil {
		return err
	}
	if k := p.target.kind(); !k.HasValue() {
		return types.Constraint(fmt.Sprintf("%s: %s nodes have no value", p, k))
	}
	return nil
}

func (p *replaceValuePrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	if err := p.target.data.SetValue(p.target.pre, p.value); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

type replaceContentPrim struct {
	base
	text string
}

// NewReplaceContent replaces all children of the element t with a single
// text node. An empty text leaves the element without children.
func NewReplaceContent(t Target, text string) Primitive {
	return &replaceContentPrim{base: base{kind: KindReplaceContent, target: t}, text: text}
}

// Text returns the new text content.
func (p *replaceContentPrim) Text() string { return p.text }

func (p *replaceContentPrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	return nil, replaceConflict(p, other)
}

func (p *replaceContentPrim) Check() error {
	if err := p.target.alive(); err != nil {
		return err
	}
	if k := p.target.kind(); k != types.NodeElement {
		return types.Constraint(fmt.Sprintf("%s: target is %s, want element", p, k))
	}
	return nil
}

func (p *replaceContentPrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	d, pre := p.target.data, p.target.pre
	for d.Size(pre) > d.AttSize(pre) {
		if err := d.Delete(pre + d.AttSize(pre)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if p.text == "" {
		return nil
	}
	if err := d.Insert(pre+d.AttSize(pre), pre, []*tree.Fragment{tree.NewText(p.text)}); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}
