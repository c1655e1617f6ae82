package tree

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/joshuapare/treekit/pkg/types"
)

// fragmentIDs hands out process-unique fragment ids. Ids start at 1.
var fragmentIDs atomic.Int64

func nextFragmentID() int {
	return int(fragmentIDs.Add(1))
}

// Fragment is a transient node that is not backed by a store. Fragments are
// built by callers (or decoded from batch files), used as the content of
// inserts and replacements, and may themselves be the target of updates.
//
// Every fragment carries a unique id drawn from a process-wide counter,
// independent of any store position.
type Fragment struct {
	id       int
	kind     types.NodeKind
	name     string
	value    string
	attrs    []*Fragment
	children []*Fragment
	parent   *Fragment
}

func newFragment(kind types.NodeKind, name, value string) *Fragment {
	return &Fragment{
		id:    nextFragmentID(),
		kind:  kind,
		name:  name,
		value: value,
	}
}

// NewDocument creates a document fragment holding content.
func NewDocument(content ...*Fragment) *Fragment {
	f := newFragment(types.NodeDocument, "", "")
	f.Append(content...)
	return f
}

// NewElement creates an element. Attribute fragments in content become the
// element's attributes; everything else becomes children, in order.
func NewElement(name string, content ...*Fragment) *Fragment {
	f := newFragment(types.NodeElement, NormalizeName(name), "")
	f.Append(content...)
	return f
}

// NewAttribute creates a parentless attribute.
func NewAttribute(name, value string) *Fragment {
	return newFragment(types.NodeAttribute, NormalizeName(name), value)
}

// NewText creates a text node.
func NewText(value string) *Fragment {
	return newFragment(types.NodeText, "", value)
}

// NewComment creates a comment.
func NewComment(value string) *Fragment {
	return newFragment(types.NodeComment, "", value)
}

// NewPI creates a processing instruction with the given target name.
func NewPI(target, value string) *Fragment {
	return newFragment(types.NodePI, NormalizeName(target), value)
}

// ID returns the fragment's unique id.
func (f *Fragment) ID() int { return f.id }

// Kind returns the node kind.
func (f *Fragment) Kind() types.NodeKind { return f.kind }

// Name returns the node name (elements, attributes, PIs).
func (f *Fragment) Name() string { return f.name }

// Value returns the string value (attributes, text, comments, PIs).
func (f *Fragment) Value() string { return f.value }

// Parent returns the containing fragment, or nil for a root.
func (f *Fragment) Parent() *Fragment { return f.parent }

// Attributes returns the attribute fragments of an element.
func (f *Fragment) Attributes() []*Fragment { return f.attrs }

// Children returns the child fragments.
func (f *Fragment) Children() []*Fragment { return f.children }

// Append attaches content to f. Attributes go to the attribute list of an
// element; all other kinds become children. A fragment that already has a
// parent is moved: it is removed from the old parent first. Appending f or
// one of its ancestors to f is ignored, so fragment trees stay acyclic.
//
// Append does not check the resulting shape; CheckShape does.
func (f *Fragment) Append(content ...*Fragment) {
	for _, c := range content {
		if c == nil || c.contains(f) {
			continue
		}
		c.detach()
		c.parent = f
		if c.kind == types.NodeAttribute && f.kind == types.NodeElement {
			f.attrs = append(f.attrs, c)
			continue
		}
		f.children = append(f.children, c)
	}
}

// contains reports whether n is f or lies below f.
func (f *Fragment) contains(n *Fragment) bool {
	for ; n != nil; n = n.parent {
		if n == f {
			return true
		}
	}
	return false
}

// detach removes f from its parent's lists.
func (f *Fragment) detach() {
	p := f.parent
	if p == nil {
		return
	}
	p.attrs = slices.DeleteFunc(p.attrs, func(x *Fragment) bool { return x == f })
	p.children = slices.DeleteFunc(p.children, func(x *Fragment) bool { return x == f })
	f.parent = nil
}

// CheckShape reports whether the subtree below f can be stored: only
// elements hold attributes, only elements and documents hold children,
// attribute lists hold attributes only, and no document or attribute sits
// in a child list. The kind of f itself is not restricted. Errors wrap
// ErrBadContent.
func (f *Fragment) CheckShape() error {
	if len(f.attrs) > 0 && f.kind != types.NodeElement {
		return fmt.Errorf("%s node with attributes: %w", f.kind, ErrBadContent)
	}
	if len(f.children) > 0 && f.kind != types.NodeElement && f.kind != types.NodeDocument {
		return fmt.Errorf("%s node with children: %w", f.kind, ErrBadContent)
	}
	for _, a := range f.attrs {
		if a.kind != types.NodeAttribute {
			return fmt.Errorf("%s node in attribute list: %w", a.kind, ErrBadContent)
		}
	}
	for _, c := range f.children {
		switch c.kind {
		case types.NodeDocument:
			return fmt.Errorf("nested document node: %w", ErrBadContent)
		case types.NodeAttribute:
			return fmt.Errorf("attribute %q in child list: %w", c.name, ErrBadContent)
		}
		if err := c.CheckShape(); err != nil {
			return err
		}
	}
	return nil
}

// Attr returns the attribute named name, if present.
func (f *Fragment) Attr(name string) (*Fragment, bool) {
	name = NormalizeName(name)
	for _, a := range f.attrs {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// Size returns the number of store rows the fragment occupies once inserted:
// itself, its attributes and all descendants.
func (f *Fragment) Size() int {
	n := 1 + len(f.attrs)
	for _, c := range f.children {
		n += c.Size()
	}
	return n
}

// Copy returns a deep copy of f with fresh ids and no parent.
func (f *Fragment) Copy() *Fragment {
	c := newFragment(f.kind, f.name, f.value)
	for _, a := range f.attrs {
		ac := a.Copy()
		ac.parent = c
		c.attrs = append(c.attrs, ac)
	}
	for _, ch := range f.children {
		cc := ch.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}
