// Package types holds the small set of types shared across treekit packages:
// typed errors with stable categories, the node kinds of the tree store and
// the limit presets that bound update batches.
//
// Design goals:
//   - Callers branch on error category (conflict, constraint, state, ...)
//     with errors.Is rather than matching message text.
//   - Node kinds are a closed enumeration with stable string names used by
//     the snapshot and batch file formats.
//
// This package has no dependencies beyond the standard library.
package types
