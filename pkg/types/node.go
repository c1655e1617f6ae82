package types

import "fmt"

// NodeKind is the kind of a node in the tree store.
type NodeKind uint8

const (
	NodeDocument NodeKind = iota
	NodeElement
	NodeAttribute
	NodeText
	NodeComment
	NodePI
)

var nodeKindNames = [...]string{
	NodeDocument:  "document",
	NodeElement:   "element",
	NodeAttribute: "attribute",
	NodeText:      "text",
	NodeComment:   "comment",
	NodePI:        "pi",
}

// String returns the stable lowercase name used in snapshot and batch files.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseNodeKind converts a stable name back to a NodeKind.
func ParseNodeKind(s string) (NodeKind, error) {
	for i, name := range nodeKindNames {
		if name == s {
			return NodeKind(i), nil
		}
	}
	return 0, Format(fmt.Sprintf("unknown node kind %q", s), nil)
}

// HasName reports whether nodes of this kind carry a name.
func (k NodeKind) HasName() bool {
	return k == NodeElement || k == NodeAttribute || k == NodePI
}

// HasValue reports whether nodes of this kind carry a string value.
func (k NodeKind) HasValue() bool {
	return k == NodeAttribute || k == NodeText || k == NodeComment || k == NodePI
}
