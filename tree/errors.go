package tree

import "errors"

var (
	// ErrOutOfRange indicates a position outside the store.
	ErrOutOfRange = errors.New("tree: position out of range")

	// ErrInvalidName indicates an empty or malformed node name.
	ErrInvalidName = errors.New("tree: invalid name")

	// ErrInvalidParent indicates a parent that cannot hold the inserted nodes,
	// or an insert position outside the parent's content.
	ErrInvalidParent = errors.New("tree: invalid parent for insert")

	// ErrDeleteRoot indicates an attempt to delete the document node.
	ErrDeleteRoot = errors.New("tree: cannot delete document node")

	// ErrNoName indicates a rename of a node kind that has no name.
	ErrNoName = errors.New("tree: node kind has no name")

	// ErrNoValue indicates a value update of a node kind that has no value.
	ErrNoValue = errors.New("tree: node kind has no value")

	// ErrBadContent indicates inserted content that is not allowed at the
	// chosen position (documents anywhere, attributes outside an element) or
	// a fragment whose subtree breaks the store layout.
	ErrBadContent = errors.New("tree: content not allowed here")
)
