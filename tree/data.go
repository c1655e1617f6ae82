package tree

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/dirty"
)

// row is one node of the table. Rows are stored in document order, so a
// node's position (pre) is its rank in a pre-order walk.
type row struct {
	kind   types.NodeKind
	id     int    // stable node id, survives position shifts
	parent int    // pre of the parent, -1 for the document node
	size   int    // rows in the subtree: self + attributes + descendants
	asize  int    // 1 + number of attributes
	name   string // elements, attributes, PIs
	value  string // attributes, text, comments, PIs
}

// Data is a document stored as a position-addressed table.
//
// Layout invariants:
//   - pre 0 is the document node;
//   - an element's attributes occupy pre+1 .. pre+asize-1;
//   - its children follow, each child at the position after the previous
//     child's subtree;
//   - a node's subtree is exactly the rows pre .. pre+size-1.
//
// Inserting or deleting rows shifts the position of every following node.
// Node ids are stable and can be used to find a node again after a shift.
//
// Data is NOT thread-safe. Mutations require exclusive access.
type Data struct {
	name   string
	rows   []row
	nextID int
	seq    uint64
	dt     *dirty.Tracker
	ids    map[int]int // id -> pre, built on demand, dropped on shifts
}

// New creates a store holding only a document node.
func New(name string) *Data {
	return &Data{
		name: name,
		rows: []row{{
			kind:   types.NodeDocument,
			id:     0,
			parent: -1,
			size:   1,
			asize:  1,
		}},
		nextID: 1,
		dt:     dirty.NewTracker(),
	}
}

// Name returns the store name.
func (d *Data) Name() string { return d.name }

// Len returns the number of rows.
func (d *Data) Len() int { return len(d.rows) }

// Seq returns the update sequence number, bumped once per transaction.
func (d *Data) Seq() uint64 { return d.seq }

// BumpSeq increments the update sequence number and returns the new value.
func (d *Data) BumpSeq() uint64 {
	d.seq++
	return d.seq
}

// Dirty returns the tracker recording touched positions.
func (d *Data) Dirty() *dirty.Tracker { return d.dt }

// Valid reports whether pre addresses a row.
func (d *Data) Valid(pre int) bool { return pre >= 0 && pre < len(d.rows) }

// The accessors below require a valid pre; use Valid to check first.

// Kind returns the node kind at pre.
func (d *Data) Kind(pre int) types.NodeKind { return d.rows[pre].kind }

// ID returns the stable node id at pre.
func (d *Data) ID(pre int) int { return d.rows[pre].id }

// NameAt returns the node name at pre.
func (d *Data) NameAt(pre int) string { return d.rows[pre].name }

// Value returns the string value at pre.
func (d *Data) Value(pre int) string { return d.rows[pre].value }

// Size returns the number of rows in the subtree rooted at pre.
func (d *Data) Size(pre int) int { return d.rows[pre].size }

// AttSize returns 1 + the number of attributes of the node at pre.
func (d *Data) AttSize(pre int) int { return d.rows[pre].asize }

// Parent returns the position of the parent, or -1 for the document node.
func (d *Data) Parent(pre int) int { return d.rows[pre].parent }

// PreOf returns the current position of the node with the given id. The
// first lookup after a structural change indexes every row; later lookups
// are constant time.
func (d *Data) PreOf(id int) (int, bool) {
	if d.ids == nil {
		d.ids = make(map[int]int, len(d.rows))
		for pre, r := range d.rows {
			d.ids[r.id] = pre
		}
	}
	pre, ok := d.ids[id]
	if !ok {
		return -1, false
	}
	return pre, true
}

// Attributes returns the positions of the attributes of the node at pre.
func (d *Data) Attributes(pre int) []int {
	r := d.rows[pre]
	out := make([]int, 0, r.asize-1)
	for a := pre + 1; a < pre+r.asize; a++ {
		out = append(out, a)
	}
	return out
}

// Children returns the positions of the children of the node at pre.
func (d *Data) Children(pre int) []int {
	r := d.rows[pre]
	var out []int
	for c := pre + r.asize; c < pre+r.size; c += d.rows[c].size {
		out = append(out, c)
	}
	return out
}

// Insert places copies of nodes at position pre as content of parent.
// Attribute nodes must be inserted into the attribute area of an element
// (pre in parent+1 .. parent+asize); other nodes into the child area
// (pre in parent+asize .. parent+size). Inserted rows get fresh node ids.
func (d *Data) Insert(pre, parent int, nodes []*Fragment) error {
	if len(nodes) == 0 {
		return nil
	}
	if !d.Valid(parent) {
		return fmt.Errorf("insert parent %d: %w", parent, ErrOutOfRange)
	}
	p := d.rows[parent]

	attrs := nodes[0].kind == types.NodeAttribute
	for _, n := range nodes {
		if n.kind == types.NodeDocument || (n.kind == types.NodeAttribute) != attrs {
			return fmt.Errorf("insert %s at %d: %w", n.kind, pre, ErrBadContent)
		}
		if err := n.CheckShape(); err != nil {
			return fmt.Errorf("insert at %d: %w", pre, err)
		}
	}

	if attrs {
		if p.kind != types.NodeElement || pre < parent+1 || pre > parent+p.asize {
			return fmt.Errorf("insert attributes at %d under %d: %w", pre, parent, ErrInvalidParent)
		}
	} else {
		if (p.kind != types.NodeElement && p.kind != types.NodeDocument) ||
			pre < parent+p.asize || pre > parent+p.size {
			return fmt.Errorf("insert at %d under %d: %w", pre, parent, ErrInvalidParent)
		}
	}

	added := make([]row, 0, len(nodes))
	for _, n := range nodes {
		added = d.flatten(added, n, parent, pre)
	}
	n := len(added)

	// Parent pointers at or past the insert position move with their targets.
	for i := range d.rows {
		if d.rows[i].parent >= pre {
			d.rows[i].parent += n
		}
	}

	d.rows = append(d.rows[:pre], append(added, d.rows[pre:]...)...)
	d.ids = nil

	for a := parent; a >= 0; a = d.rows[a].parent {
		d.rows[a].size += n
	}
	if attrs {
		d.rows[parent].asize += n
	}

	d.dt.Add(pre, n)
	return nil
}

// flatten appends the rows of f to out. base is the position the first row
// of out will occupy, so parent pointers are computed in final coordinates.
func (d *Data) flatten(out []row, f *Fragment, parent, base int) []row {
	self := base + len(out)
	out = append(out, row{
		kind:   f.kind,
		id:     d.allocID(),
		parent: parent,
		size:   f.Size(),
		asize:  1 + len(f.attrs),
		name:   f.name,
		value:  f.value,
	})
	for _, a := range f.attrs {
		out = d.flatten(out, a, self, base)
	}
	for _, c := range f.children {
		out = d.flatten(out, c, self, base)
	}
	return out
}

func (d *Data) allocID() int {
	id := d.nextID
	d.nextID++
	return id
}

// Delete removes the subtree rooted at pre.
func (d *Data) Delete(pre int) error {
	if !d.Valid(pre) {
		return fmt.Errorf("delete %d: %w", pre, ErrOutOfRange)
	}
	if pre == 0 {
		return ErrDeleteRoot
	}
	r := d.rows[pre]
	n := r.size

	d.rows = append(d.rows[:pre], d.rows[pre+n:]...)
	d.ids = nil
	for i := range d.rows {
		if d.rows[i].parent >= pre+n {
			d.rows[i].parent -= n
		}
	}

	for a := r.parent; a >= 0; a = d.rows[a].parent {
		d.rows[a].size -= n
	}
	if r.kind == types.NodeAttribute {
		d.rows[r.parent].asize--
	}

	d.dt.Add(pre, 0)
	return nil
}

// Rename sets the name of the node at pre.
func (d *Data) Rename(pre int, name string) error {
	if !d.Valid(pre) {
		return fmt.Errorf("rename %d: %w", pre, ErrOutOfRange)
	}
	if !d.rows[pre].kind.HasName() {
		return fmt.Errorf("rename %s: %w", d.rows[pre].kind, ErrNoName)
	}
	name = NormalizeName(name)
	if !ValidName(name) {
		return fmt.Errorf("rename to %q: %w", name, ErrInvalidName)
	}
	d.rows[pre].name = name
	d.dt.Add(pre, 1)
	return nil
}

// SetValue sets the string value of the node at pre.
func (d *Data) SetValue(pre int, value string) error {
	if !d.Valid(pre) {
		return fmt.Errorf("set value %d: %w", pre, ErrOutOfRange)
	}
	if !d.rows[pre].kind.HasValue() {
		return fmt.Errorf("set value of %s: %w", d.rows[pre].kind, ErrNoValue)
	}
	d.rows[pre].value = value
	d.dt.Add(pre, 1)
	return nil
}

// Clone returns an independent copy of the store with a fresh tracker.
func (d *Data) Clone() *Data {
	rows := make([]row, len(d.rows))
	copy(rows, d.rows)
	return &Data{
		name:   d.name,
		rows:   rows,
		nextID: d.nextID,
		seq:    d.seq,
		dt:     dirty.NewTracker(),
	}
}

// Restore replaces the content of d with the content of src, keeping d's
// identity so that outstanding references to d see the restored state.
func (d *Data) Restore(src *Data) {
	d.name = src.name
	d.rows = make([]row, len(src.rows))
	copy(d.rows, src.rows)
	d.nextID = src.nextID
	d.seq = src.seq
	d.ids = nil
	d.dt.Reset()
}
