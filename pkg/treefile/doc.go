// Package treefile applies update batches to tree store files.
//
// It is the file-level entry point used by treectl: each call loads a store,
// runs one batch inside a tree/tx transaction (exclusive lock, rollback copy)
// and writes the result atomically. A batch that fails any check leaves the
// file as it was, whatever the registry's apply mode.
//
// Example:
//
//	res, err := treefile.ApplyBatchFile(ctx, "doc.tree.json", "edits.yaml", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("applied %d primitives\n", res.Applied.Applied)
package treefile
