package update

// Primitive is a single pending structural change against one target node.
//
// Implementations are produced by the caller (or decoded from a batch file)
// and handed to a Registry. The registry calls the methods in this order:
//
//	Merge - zero or more times while collecting, when a primitive of the
//	        same kind arrives for the same target
//	Check - once, immediately before the bucket is applied (or, in
//	        ApplyValidateFirst mode, before any bucket is applied)
//	Apply - once, only for targets backed by a store
type Primitive interface {
	// Kind returns the operation kind, which selects the bucket slot.
	Kind() Kind

	// Target returns the node the primitive applies to.
	Target() Target

	// Merge combines other, a primitive of the same kind and target that
	// arrived later, into one primitive and returns it. It returns a
	// conflict error if the two cannot be composed.
	Merge(other Primitive) (Primitive, error)

	// Check verifies the primitive's preconditions against the current
	// state and returns a constraint violation if they do not hold.
	Check() error

	// Apply performs the change on the backing store.
	Apply() error
}
