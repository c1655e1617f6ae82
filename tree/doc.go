// Package tree implements a persistent, position-addressed tree store.
//
// A document is held as a table of rows in document order. Each node is
// addressed by its position (pre value); inserting or deleting rows shifts
// the positions of all following nodes. Nodes also carry a stable id that
// survives shifts, and transient nodes that are not part of any store are
// represented as Fragments with their own id space.
//
// # Layout
//
//	pre  kind       size asize parent name
//	0    document   5    1     -1
//	1    element    4    2     0     root
//	2    attribute  1    1     1     version
//	3    element    2    1     1     item
//	4    text       1    1     3
//
// An element's attributes immediately follow it, then its children. The
// subtree of the node at pre is exactly the rows pre .. pre+size-1.
//
// # Editing
//
// Data exposes the primitive structural mutations: Insert, Delete, Rename and
// SetValue. Higher-level batching, merging and ordering of edits lives in the
// update package, which applies edits from the highest position down so that
// positions captured before the batch stay valid.
//
// # Persistence
//
// Stores are saved as JSON snapshot files (Save, Load) written atomically.
// The tx subpackage wraps a file-backed store in an exclusive, rollback-able
// transaction.
package tree
