// Package update collects structural update primitives against a tree store
// and applies them as one batch.
//
// # Overview
//
// A caller resolves the nodes it wants to change into Targets, builds one
// Primitive per change (insert, delete, rename, replace) and registers each
// with a Registry. The registry keeps one Bucket per target, with one slot
// per Kind; a second primitive of a kind already present for that target is
// merged into the slot (inserts concatenate, deletes collapse, renames and
// replacements conflict).
//
// Apply then walks the buckets from the highest position to the lowest,
// checking and applying each one:
//
//	d := tree.New("doc")
//	// ... populate d ...
//	reg := update.NewRegistry(update.SpacePersisted, update.DefaultOptions())
//	t5, _ := update.StoreTarget(d, 5)
//	t10, _ := update.StoreTarget(d, 10)
//	_ = reg.AddPrimitive(update.NewInsertBefore(t10, tree.NewElement("new")))
//	_ = reg.AddPrimitive(update.NewDelete(t5))
//	applied, err := reg.Apply()
//
// Edits applied at a position only shift nodes at or after that position,
// so descending order keeps the positions captured for the lower targets
// valid throughout the batch. Inside a bucket the slots are applied in Kind
// order, which keeps the target's own start position valid until the kinds
// that remove it have run.
//
// # Identity spaces
//
// Targets are either store nodes (SpacePersisted, keyed by position) or
// transient fragments (SpaceFragment, keyed by fragment id). A registry is
// created for one space. A fragment registry has nothing to write: Apply
// checks its highest bucket and returns. Pending routes a mixed set of
// primitives to one registry per store plus one fragment registry.
//
// # Failure
//
// Conflicts surface from AddPrimitive (errors.Is(err, types.ErrConflict)).
// Constraint violations surface from Apply (types.ErrConstraint) and stop the
// traversal. In the default ApplyInterleaved mode the buckets above the
// failing one stay applied; wrap the batch in a tree/tx transaction to roll
// back, or use ApplyValidateFirst to check every bucket before writing.
//
// # Batch files
//
// ParseBatch reads a YAML or JSON list of operations addressed by position
// or node id; Batch.Primitives turns it into primitives for a store.
// Batch.CheckLimits bounds its size against a types.Limits preset.
package update
