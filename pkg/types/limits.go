package types

// ============================================================================
// Batch Limits Constants
// ============================================================================
// These constants bound the size of update batches and of the stores they
// produce. They are not format limits: the store and batch formats have none.
// They keep a single batch from exhausting memory or producing documents that
// downstream tools cannot handle.

const (
	// DefaultMaxOperations is the standard maximum number of operations in
	// one batch.
	DefaultMaxOperations = 10000

	// RelaxedMaxOperations allows very large generated batches.
	RelaxedMaxOperations = 1000000

	// DefaultMaxContentNodes is the standard maximum number of nodes (all
	// levels) in the content of one operation.
	DefaultMaxContentNodes = 100000

	// DefaultMaxContentDepth is the standard maximum nesting depth of the
	// content of one operation.
	DefaultMaxContentDepth = 256

	// DeepMaxContentDepth allows very deep content for special cases.
	DeepMaxContentDepth = 1024

	// DefaultMaxNameLen is the maximum length of a node name in characters.
	DefaultMaxNameLen = 1024

	// StrictMaxNameLen is a much smaller name limit for strict validation.
	StrictMaxNameLen = 128

	// DefaultMaxValueSize is the standard maximum size of one node value (1 MB).
	DefaultMaxValueSize = 1 << 20

	// RelaxedMaxValueSize is a relaxed maximum for large text content (16 MB).
	RelaxedMaxValueSize = 16 << 20

	// StrictMaxValueSize is a conservative value limit (64 KB).
	StrictMaxValueSize = 64 << 10

	// DefaultMaxStoreNodes is the standard maximum number of nodes in a store
	// after a batch.
	DefaultMaxStoreNodes = 10000000

	// StrictDivisor scales the default counts down for StrictLimits.
	StrictDivisor = 100
)

// Limits bounds update batches. A zero field means no limit.
type Limits struct {
	// MaxOperations is the maximum number of operations in one batch.
	MaxOperations int

	// MaxContentNodes is the maximum number of nodes, counted over all
	// levels, in the content of one operation.
	MaxContentNodes int

	// MaxContentDepth is the maximum nesting depth of one operation's content.
	// A single text node has depth 1.
	MaxContentDepth int

	// MaxNameLen is the maximum length of a node name in characters (not bytes).
	MaxNameLen int

	// MaxValueSize is the maximum size of a node value in bytes.
	MaxValueSize int

	// MaxStoreNodes is the maximum number of nodes in the store once the
	// batch has been applied.
	MaxStoreNodes int
}

// DefaultLimits returns limits that no hand-written batch comes close to.
func DefaultLimits() Limits {
	return Limits{
		MaxOperations:   DefaultMaxOperations,
		MaxContentNodes: DefaultMaxContentNodes,
		MaxContentDepth: DefaultMaxContentDepth,
		MaxNameLen:      DefaultMaxNameLen,
		MaxValueSize:    DefaultMaxValueSize,
		MaxStoreNodes:   DefaultMaxStoreNodes,
	}
}

// RelaxedLimits returns more permissive limits for generated batches.
func RelaxedLimits() Limits {
	return Limits{
		MaxOperations:   RelaxedMaxOperations,
		MaxContentNodes: DefaultMaxContentNodes * 10,
		MaxContentDepth: DeepMaxContentDepth,
		MaxNameLen:      DefaultMaxNameLen,
		MaxValueSize:    RelaxedMaxValueSize,
		MaxStoreNodes:   DefaultMaxStoreNodes * 10,
	}
}

// StrictLimits returns conservative limits for untrusted input.
func StrictLimits() Limits {
	return Limits{
		MaxOperations:   DefaultMaxOperations / StrictDivisor,
		MaxContentNodes: DefaultMaxContentNodes / StrictDivisor,
		MaxContentDepth: DefaultMaxContentDepth / 4,
		MaxNameLen:      StrictMaxNameLen,
		MaxValueSize:    StrictMaxValueSize,
		MaxStoreNodes:   DefaultMaxStoreNodes / StrictDivisor,
	}
}

// LimitsPreset returns the named preset: "default", "relaxed" or "strict".
func LimitsPreset(name string) (Limits, bool) {
	switch name {
	case "", "default":
		return DefaultLimits(), true
	case "relaxed":
		return RelaxedLimits(), true
	case "strict":
		return StrictLimits(), true
	}
	return Limits{}, false
}
