package treefile

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/joshuapare/treekit/tree"
)

// Diff returns the JSON Patch that turns the snapshot of the store at aPath
// into the snapshot of the store at bPath. Node ids are part of the
// snapshot, so a node replaced by an equal one still shows up as a change.
func Diff(aPath, bPath string) (jsondiff.Patch, error) {
	a, err := tree.Load(aPath)
	if err != nil {
		return nil, err
	}
	b, err := tree.Load(bPath)
	if err != nil {
		return nil, err
	}
	return snapshotPatch(a.Snapshot(), b.Snapshot())
}

func snapshotPatch(before, after tree.Node) (jsondiff.Patch, error) {
	src, err := json.Marshal(before)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	dst, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	patch, err := jsondiff.CompareJSON(src, dst)
	if err != nil {
		return nil, fmt.Errorf("diff snapshots: %w", err)
	}
	return patch, nil
}
