package update

import (
	"fmt"

	"github.com/joshuapare/treekit/pkg/types"
)

// Kind is the operation kind of an update primitive. The ordinal doubles as
// the slot index in a Bucket and as the order in which the slots of one
// bucket are applied.
//
// The order keeps the target's own position valid for as long as later
// slots need it: in-place edits first, then inserts that land after the
// target's start, then the kinds that remove the target, and finally
// InsertBefore, which lands where the target started.
type Kind uint8

const (
	KindRename Kind = iota
	KindReplaceValue
	KindInsertAttribute
	KindInsertIntoFirst
	KindInsertInto
	KindInsertIntoLast
	KindReplaceContent
	KindInsertAfter
	KindReplaceNode
	KindDelete
	KindInsertBefore

	// NumKinds is the number of operation kinds and the size of a Bucket.
	NumKinds = int(iota)
)

var kindNames = [NumKinds]string{
	KindRename:          "rename",
	KindReplaceValue:    "replace_value",
	KindInsertAttribute: "insert_attributes",
	KindInsertIntoFirst: "insert_into_first",
	KindInsertInto:      "insert_into",
	KindInsertIntoLast:  "insert_into_last",
	KindReplaceContent:  "replace_content",
	KindInsertAfter:     "insert_after",
	KindReplaceNode:     "replace_node",
	KindDelete:          "delete",
	KindInsertBefore:    "insert_before",
}

// String returns the snake_case name used in batch files.
func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind converts a batch file op name to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, types.Format(fmt.Sprintf("unknown operation %q", s), nil)
}

// isInsert reports whether k inserts content relative to the target.
func (k Kind) isInsert() bool {
	switch k {
	case KindInsertAttribute, KindInsertIntoFirst, KindInsertInto, KindInsertIntoLast,
		KindInsertAfter, KindInsertBefore:
		return true
	}
	return false
}
