package tree

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// Node is the nested, serializable form of a subtree. It is used by store
// snapshot files and as the content notation of batch files. ID is set for
// nodes read from a store and left zero for new content.
type Node struct {
	ID       int    `json:"id,omitempty" yaml:"id,omitempty"`
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Attrs    []Node `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot returns the whole document as a nested Node.
func (d *Data) Snapshot() Node {
	return d.NodeAt(0)
}

// NodeAt returns the subtree at pre as a nested Node.
func (d *Data) NodeAt(pre int) Node {
	r := d.rows[pre]
	n := Node{
		ID:    r.id,
		Kind:  r.kind.String(),
		Name:  r.name,
		Value: r.value,
	}
	for _, a := range d.Attributes(pre) {
		n.Attrs = append(n.Attrs, d.NodeAt(a))
	}
	for _, c := range d.Children(pre) {
		n.Children = append(n.Children, d.NodeAt(c))
	}
	return n
}

// FromSnapshot rebuilds a store from a nested document node. Node ids found
// in the snapshot are kept; nodes without an id (other than the root) get
// fresh ones.
func FromSnapshot(name string, root Node) (*Data, error) {
	kind, err := types.ParseNodeKind(root.Kind)
	if err != nil {
		return nil, err
	}
	if kind != types.NodeDocument {
		return nil, types.Format(fmt.Sprintf("snapshot root is %s, want document", kind), nil)
	}

	d := New(name)
	maxID := 0
	seen := map[int]bool{0: true}
	var walk func(n Node, parent int) error
	walk = func(n Node, parent int) error {
		for _, a := range n.Attrs {
			if err := addRow(d, a, parent, true, seen, &maxID); err != nil {
				return err
			}
			if err := walk(a, len(d.rows)-1); err != nil {
				return err
			}
		}
		for _, c := range n.Children {
			if err := addRow(d, c, parent, false, seen, &maxID); err != nil {
				return err
			}
			if err := walk(c, len(d.rows)-1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}

	// Rows start with size 1; fold each subtree into its parent, last row first.
	for pre := len(d.rows) - 1; pre > 0; pre-- {
		d.rows[d.rows[pre].parent].size += d.rows[pre].size
	}
	for pre := range d.rows {
		if d.rows[pre].id < 0 {
			maxID++
			d.rows[pre].id = maxID
		}
	}
	d.nextID = maxID + 1
	d.dt.Reset()
	return d, nil
}

// addRow appends one row for n under parent. attrList is set when n comes
// from an attribute list, which must hold attributes only. Rows without an
// id get -1 and are numbered once all explicit ids are known.
func addRow(d *Data, n Node, parent int, attrList bool, seen map[int]bool, maxID *int) error {
	kind, err := types.ParseNodeKind(n.Kind)
	if err != nil {
		return err
	}
	if kind == types.NodeDocument {
		return types.Format("nested document node", nil)
	}
	isAttr := kind == types.NodeAttribute
	if attrList != isAttr {
		return types.Format(fmt.Sprintf("%s node in wrong list of %q", kind, d.rows[parent].name), nil)
	}
	if kind.HasName() && !ValidName(NormalizeName(n.Name)) {
		return types.Format(fmt.Sprintf("invalid %s name %q", kind, n.Name), nil)
	}
	if err := checkShape(kind, n); err != nil {
		return err
	}

	id := -1
	if n.ID > 0 {
		if seen[n.ID] {
			return types.Format(fmt.Sprintf("duplicate node id %d", n.ID), nil)
		}
		seen[n.ID] = true
		id = n.ID
		if id > *maxID {
			*maxID = id
		}
	}

	d.rows = append(d.rows, row{
		kind:   kind,
		id:     id,
		parent: parent,
		size:   1,
		asize:  1 + len(n.Attrs),
		name:   NormalizeName(n.Name),
		value:  n.Value,
	})
	return nil
}

// Fragment converts a Node into a detached fragment tree. Ids in n are ignored.
func (n Node) Fragment() (*Fragment, error) {
	kind, err := types.ParseNodeKind(n.Kind)
	if err != nil {
		return nil, err
	}
	if kind.HasName() && !ValidName(NormalizeName(n.Name)) {
		return nil, types.Format(fmt.Sprintf("invalid %s name %q", kind, n.Name), nil)
	}
	if err := checkShape(kind, n); err != nil {
		return nil, err
	}
	f := newFragment(kind, NormalizeName(n.Name), n.Value)
	for _, a := range n.Attrs {
		af, err := a.Fragment()
		if err != nil {
			return nil, err
		}
		if af.kind != types.NodeAttribute {
			return nil, types.Format(fmt.Sprintf("%s node in attribute list", af.kind), nil)
		}
		af.parent = f
		f.attrs = append(f.attrs, af)
	}
	for _, c := range n.Children {
		cf, err := c.Fragment()
		if err != nil {
			return nil, err
		}
		cf.parent = f
		f.children = append(f.children, cf)
	}
	return f, nil
}

// FragmentNode converts a fragment into its nested Node form.
func FragmentNode(f *Fragment) Node {
	n := Node{
		Kind:  f.kind.String(),
		Name:  f.name,
		Value: f.value,
	}
	for _, a := range f.attrs {
		n.Attrs = append(n.Attrs, FragmentNode(a))
	}
	for _, c := range f.children {
		n.Children = append(n.Children, FragmentNode(c))
	}
	return n
}

// checkShape rejects attribute lists outside elements and children below
// leaf kinds.
func checkShape(kind types.NodeKind, n Node) error {
	if len(n.Attrs) > 0 && kind != types.NodeElement {
		return types.Format(fmt.Sprintf("%s node cannot have attributes", kind), nil)
	}
	if len(n.Children) > 0 && kind != types.NodeElement && kind != types.NodeDocument {
		return types.Format(fmt.Sprintf("%s node cannot have children", kind), nil)
	}
	return nil
}
