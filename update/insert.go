package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// insertPrim covers every insert kind. Merged inserts keep their content in
// arrival order.
type insertPrim struct {
	base
	content []*tree.Fragment
}

func newInsert(k Kind, t Target, nodes []*tree.Fragment) *insertPrim {
	p := &insertPrim{base: base{kind: k, target: t}}
	for _, n := range nodes {
		if n != nil {
			p.content = append(p.content, n)
		}
	}
	return p
}

// NewInsertBefore inserts nodes as preceding siblings of t.
func NewInsertBefore(t Target, nodes ...*tree.Fragment) Primitive {
	return newInsert(KindInsertBefore, t, nodes)
}

// NewInsertAfter inserts nodes as following siblings of t.
func NewInsertAfter(t Target, nodes ...*tree.Fragment) Primitive {
	return newInsert(KindInsertAfter, t, nodes)
}

// NewInsertIntoFirst inserts nodes as the first children of t.
func NewInsertIntoFirst(t Target, nodes ...*tree.Fragment) Primitive {
	return newInsert(KindInsertIntoFirst, t, nodes)
}

// NewInsertInto inserts nodes as children of t. They are placed last.
func NewInsertInto(t Target, nodes ...*tree.Fragment) Primitive {
	return newInsert(KindInsertInto, t, nodes)
}

// NewInsertIntoLast inserts nodes as the last children of t.
func NewInsertIntoLast(t Target, nodes ...*tree.Fragment) Primitive {
	return newInsert(KindInsertIntoLast, t, nodes)
}

// NewInsertAttributes adds attribute nodes to the element t.
func NewInsertAttributes(t Target, attrs ...*tree.Fragment) Primitive {
	return newInsert(KindInsertAttribute, t, attrs)
}

// Content returns the nodes to insert.
func (p *insertPrim) Content() []*tree.Fragment { return p.content }

func (p *insertPrim) Merge(other Primitive) (Primitive, error) {
	if err := p.mergeable(other); err != nil {
		return nil, err
	}
	o, ok := other.(*insertPrim)
	if !ok {
		return nil, types.Conflict(fmt.Sprintf("cannot merge %T into %s", other, p))
	}
	content := make([]*tree.Fragment, 0, len(p.content)+len(o.content))
	content = append(content, p.content...)
	content = append(content, o.content...)
	return &insertPrim{base: p.base, content: content}, nil
}

func (p *insertPrim) Check() error {
	t := p.target
	if err := t.alive(); err != nil {
		return err
	}
	if err := checkContent(p.content, p.kind == KindInsertAttribute); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	switch p.kind {
	case KindInsertAttribute:
		if t.kind() != types.NodeElement {
			return types.Constraint(fmt.Sprintf("%s: attributes can only be added to elements, target is %s", p, t.kind()))
		}
		if err := checkAttrNames(t.attrNames(), p.content); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	case KindInsertIntoFirst, KindInsertInto, KindInsertIntoLast:
		if k := t.kind(); k != types.NodeElement && k != types.NodeDocument {
			return types.Constraint(fmt.Sprintf("%s: target is %s, want element or document", p, k))
		}
	case KindInsertBefore, KindInsertAfter:
		if t.kind() == types.NodeAttribute {
			return types.Constraint(fmt.Sprintf("%s: target is an attribute", p))
		}
		if !t.hasParent() {
			return types.Constraint(fmt.Sprintf("%s: target has no parent", p))
		}
	}
	return nil
}

func (p *insertPrim) Apply() error {
	if err := p.requireStore(); err != nil {
		return err
	}
	d, pre := p.target.data, p.target.pre

	at, parent := pre, pre
	switch p.kind {
	case KindInsertAttribute, KindInsertIntoFirst:
		at = pre + d.AttSize(pre)
	case KindInsertInto, KindInsertIntoLast:
		at = pre + d.Size(pre)
	case KindInsertAfter:
		at, parent = pre+d.Size(pre), p.target.parent
	case KindInsertBefore:
		// The target may already be gone (delete or replace in this bucket);
		// its start position and captured parent still locate the gap.
		parent = p.target.parent
	}
	if err := d.Insert(at, parent, p.content); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

// checkContent verifies that content holds no documents, holds attributes
// exactly when attrs is set, and that every node's subtree fits the store
// layout.
func checkContent(content []*tree.Fragment, attrs bool) error {
	for _, n := range content {
		switch {
		case n.Kind() == types.NodeDocument:
			return types.Constraint("document node in inserted content")
		case attrs && n.Kind() != types.NodeAttribute:
			return types.Constraint(fmt.Sprintf("%s node where attributes are expected", n.Kind()))
		case !attrs && n.Kind() == types.NodeAttribute:
			return types.Constraint(fmt.Sprintf("attribute %q outside an attribute list", n.Name()))
		}
		if err := n.CheckShape(); err != nil {
			return &types.Error{Kind: types.ErrKindConstraint, Msg: "malformed content", Err: err}
		}
	}
	return nil
}

// checkAttrNames rejects attribute content whose names repeat each other
// or one of existing.
func checkAttrNames(existing []string, content []*tree.Fragment) error {
	seen := make(map[string]bool, len(existing)+len(content))
	for _, n := range existing {
		seen[n] = true
	}
	for _, a := range content {
		if seen[a.Name()] {
			return types.Constraint(fmt.Sprintf("duplicate attribute %q", a.Name()))
		}
		seen[a.Name()] = true
	}
	return nil
}
