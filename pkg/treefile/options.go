package treefile

import (
	"log/slog"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/update"
)

// ApplyOptions controls ApplyBatch and ApplyBatchFile. A nil *ApplyOptions
// selects the defaults.
type ApplyOptions struct {
	// Mode selects interleaved (default) or validate-first application.
	Mode update.ApplyMode

	// Lenient disables the registry's strict identity-space check.
	Lenient bool

	// Encoding of the batch input, see update.BatchOptions.
	Encoding string

	// DryRun applies the batch to the loaded store, reports the result and
	// leaves the file untouched.
	DryRun bool

	// Diff computes a JSON Patch from the store before the batch to after it.
	Diff bool

	// CreateBackup copies the store to <path>.bak before modifying it.
	CreateBackup bool

	// Limits bounds the batch and the resulting store. Default:
	// types.DefaultLimits().
	Limits *types.Limits

	// Logger receives registry records. Default: internal/logger.L.
	Logger *slog.Logger
}

func (o *ApplyOptions) registryOptions() update.Options {
	opt := update.DefaultOptions()
	opt.Mode = o.Mode
	opt.Strict = !o.Lenient
	opt.Logger = o.Logger
	return opt
}

func (o *ApplyOptions) limits() types.Limits {
	if o.Limits == nil {
		return types.DefaultLimits()
	}
	return *o.Limits
}
