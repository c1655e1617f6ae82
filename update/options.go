package update

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/treekit/pkg/types"
)

// ApplyMode selects how validation and application are interleaved.
type ApplyMode int

const (
	// ApplyInterleaved checks and then applies each bucket before moving to
	// the next lower target. A check failure leaves the already applied
	// higher buckets in place: the batch is not atomic.
	ApplyInterleaved ApplyMode = iota

	// ApplyValidateFirst checks every bucket before applying any. A check
	// failure leaves the store untouched. Checks run against the state before
	// the batch, so preconditions that depend on edits of other buckets in
	// the same batch are not seen.
	ApplyValidateFirst
)

// String returns the mode name used in config files and CLI flags.
func (m ApplyMode) String() string {
	switch m {
	case ApplyInterleaved:
		return "interleaved"
	case ApplyValidateFirst:
		return "validate-first"
	default:
		return fmt.Sprintf("ApplyMode(%d)", int(m))
	}
}

// ParseApplyMode converts a mode name to an ApplyMode. The empty string
// selects the default.
func ParseApplyMode(s string) (ApplyMode, error) {
	switch s {
	case "", "interleaved":
		return ApplyInterleaved, nil
	case "validate-first":
		return ApplyValidateFirst, nil
	default:
		return 0, types.Format(fmt.Sprintf("unknown apply mode %q", s), nil)
	}
}

// Options configures a Registry.
//
// Use DefaultOptions() for the standard behavior.
type Options struct {
	// Mode selects interleaved (default) or validate-first application.
	Mode ApplyMode

	// Strict rejects primitives whose target is in the other identity space
	// than the registry's, or in a different store than earlier primitives.
	// When false, mixed batches are accepted; fragment-targeted slots are
	// then checked but never applied.
	// Default: true
	Strict bool

	// Logger receives debug records for merges and bucket processing.
	// Default: the package-level logger of internal/logger.
	Logger *slog.Logger
}

// DefaultOptions returns interleaved application with strict identity spaces.
func DefaultOptions() Options {
	return Options{
		Mode:   ApplyInterleaved,
		Strict: true,
	}
}
