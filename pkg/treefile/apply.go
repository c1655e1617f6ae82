package treefile

import (
	"context"
	"fmt"
	"os"

	"github.com/wI2L/jsondiff"

	"github.com/joshuapare/treekit/internal/logger"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/tx"
	"github.com/joshuapare/treekit/update"
)

// Result describes one applied batch.
type Result struct {
	BatchID    string         `json:"batch_id"`
	Operations int            `json:"operations"`
	Applied    update.Applied `json:"-"`
	ByKind     map[string]int `json:"by_kind,omitempty"`
	Sequence   uint64         `json:"sequence"`
	DryRun     bool           `json:"dry_run,omitempty"`
	Patch      jsondiff.Patch `json:"patch,omitempty"`
}

// ApplyBatchFile reads a batch file and applies it to the store at storePath.
func ApplyBatchFile(ctx context.Context, storePath, batchPath string, opts *ApplyOptions) (*Result, error) {
	if !fileExists(storePath) {
		return nil, fmt.Errorf("store file not found: %s", storePath)
	}
	data, err := os.ReadFile(batchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", batchPath, err)
	}
	return ApplyBatch(ctx, storePath, data, opts)
}

// ApplyBatch parses a batch document and applies it to the store at
// storePath in one transaction. On any error the file is left unchanged.
func ApplyBatch(ctx context.Context, storePath string, data []byte, opts *ApplyOptions) (*Result, error) {
	if opts == nil {
		opts = &ApplyOptions{}
	}
	if !fileExists(storePath) {
		return nil, fmt.Errorf("store file not found: %s", storePath)
	}

	batch, err := update.ParseBatch(data, update.BatchOptions{Encoding: opts.Encoding})
	if err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	if err := batch.CheckLimits(opts.limits()); err != nil {
		return nil, fmt.Errorf("batch exceeds limits: %w", err)
	}

	d, err := tree.Load(storePath)
	if err != nil {
		return nil, err
	}

	mgr := tx.NewManager(d, storePath)
	if err := mgr.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}

	if opts.CreateBackup && !opts.DryRun {
		backupPath := storePath + ".bak"
		if err := copyFile(storePath, backupPath); err != nil {
			mgr.Rollback()
			return nil, fmt.Errorf("failed to create backup at %s: %w", backupPath, err)
		}
	}

	res, err := applyInTx(d, batch, opts)
	if err != nil {
		mgr.Rollback()
		return nil, err
	}
	res.Sequence = mgr.CurrentSequence()

	if opts.DryRun {
		mgr.Rollback()
		return res, nil
	}
	if err := mgr.Commit(ctx); err != nil {
		mgr.Rollback()
		return nil, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

// applyInTx builds and applies the batch's primitives on d. The caller owns
// the transaction.
func applyInTx(d *tree.Data, batch *update.Batch, opts *ApplyOptions) (*Result, error) {
	var before tree.Node
	if opts.Diff {
		before = d.Snapshot()
	}

	prims, err := batch.Primitives(d)
	if err != nil {
		return nil, err
	}

	reg := update.NewRegistry(update.SpacePersisted, opts.registryOptions())
	for i, p := range prims {
		if err := reg.AddPrimitive(p); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, p.Kind(), err)
		}
	}

	st, err := reg.Apply()
	if err != nil {
		return nil, fmt.Errorf("apply batch %s: %w", reg.ID(), err)
	}
	if maxNodes := opts.limits().MaxStoreNodes; maxNodes > 0 && d.Len() > maxNodes {
		return nil, fmt.Errorf("apply batch %s: %w", reg.ID(),
			types.Constraint(fmt.Sprintf("store grows to %d nodes, limit %d", d.Len(), maxNodes)))
	}
	logger.Info("batch applied", "batch", reg.ID().String(), "store", d.Name(),
		"operations", len(prims), "applied", st.Applied, "dirty", len(d.Dirty().Ranges()))

	res := &Result{
		BatchID:    reg.ID().String(),
		Operations: len(prims),
		Applied:    st,
		ByKind:     st.KindCounts(),
		DryRun:     opts.DryRun,
	}
	if opts.Diff {
		res.Patch, err = snapshotPatch(before, d.Snapshot())
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Create writes a new store containing only a document node. It fails if
// path already exists.
func Create(path, name string) error {
	if fileExists(path) {
		return fmt.Errorf("store file already exists: %s", path)
	}
	return tree.New(name).Save(path)
}
