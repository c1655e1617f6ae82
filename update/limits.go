package update

import (
	"fmt"
	"unicode/utf8"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
)

// CheckLimits verifies that b stays within l. Zero fields of l are not
// checked.
func (b *Batch) CheckLimits(l types.Limits) error {
	if l.MaxOperations > 0 && len(b.Operations) > l.MaxOperations {
		return types.Constraint(fmt.Sprintf("batch has %d operations, limit %d", len(b.Operations), l.MaxOperations))
	}
	for i, op := range b.Operations {
		if err := checkNameValue(l, op.Name, op.Value); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		nodes := 0
		for _, n := range op.Content {
			if err := checkNode(l, n, 1, &nodes); err != nil {
				return fmt.Errorf("operation %d: %w", i, err)
			}
		}
	}
	return nil
}

func checkNode(l types.Limits, n tree.Node, depth int, nodes *int) error {
	*nodes++
	if l.MaxContentNodes > 0 && *nodes > l.MaxContentNodes {
		return types.Constraint(fmt.Sprintf("content exceeds %d nodes", l.MaxContentNodes))
	}
	if l.MaxContentDepth > 0 && depth > l.MaxContentDepth {
		return types.Constraint(fmt.Sprintf("content deeper than %d levels", l.MaxContentDepth))
	}
	if err := checkNameValue(l, n.Name, n.Value); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if err := checkNode(l, a, depth+1, nodes); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := checkNode(l, c, depth+1, nodes); err != nil {
			return err
		}
	}
	return nil
}

func checkNameValue(l types.Limits, name, value string) error {
	if l.MaxNameLen > 0 && utf8.RuneCountInString(name) > l.MaxNameLen {
		return types.Constraint(fmt.Sprintf("name longer than %d characters", l.MaxNameLen))
	}
	if l.MaxValueSize > 0 && len(value) > l.MaxValueSize {
		return types.Constraint(fmt.Sprintf("value larger than %d bytes", l.MaxValueSize))
	}
	return nil
}
