package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/update"
)

var (
	applyDryRun   bool
	applyDiff     bool
	applyBackup   bool
	applyLenient  bool
	applyMode     string
	applyEncoding string
	applyLimits   string
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "Report what would change without writing the store")
	cmd.Flags().BoolVar(&applyDiff, "diff", false, "Print a JSON Patch of the changes")
	cmd.Flags().BoolVarP(&applyBackup, "backup", "b", false, "Create <store>.bak before applying")
	cmd.Flags().BoolVar(&applyLenient, "lenient", false, "Accept primitives from another identity space")
	cmd.Flags().StringVar(&applyMode, "mode", "", "Apply mode: interleaved or validate-first (default from config)")
	cmd.Flags().StringVar(&applyEncoding, "encoding", "", "Batch encoding (default from config)")
	cmd.Flags().StringVar(&applyLimits, "limits", "default", "Limits preset (default, strict, relaxed)")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <store> <batch>...",
		Short: "Apply one or more batch files to a store",
		Long: `The apply command applies update batches (YAML or JSON) to a store.
Each batch file runs in its own transaction, in the order given. A batch
whose operations conflict or fail a check is rolled back and stops the run.

Example:
  treectl apply doc.tree.json edits.yaml
  treectl apply doc.tree.json a.yaml b.json --diff
  treectl apply doc.tree.json edits.yaml --dry-run --mode validate-first
  treectl apply doc.tree.json untrusted.yaml --limits strict`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), args[0], args[1:])
		},
	}
}

// applyOptions merges the command flags over the loaded config.
func applyOptions() (*treefile.ApplyOptions, error) {
	opts := &treefile.ApplyOptions{
		Mode:         cfg.Apply.Mode,
		Lenient:      !cfg.Apply.Strict || applyLenient,
		Encoding:     cfg.Batch.Encoding,
		DryRun:       applyDryRun,
		Diff:         applyDiff,
		CreateBackup: applyBackup,
	}
	if applyMode != "" {
		m, err := update.ParseApplyMode(applyMode)
		if err != nil {
			return nil, err
		}
		opts.Mode = m
	}
	if applyEncoding != "" {
		opts.Encoding = applyEncoding
	}
	limits, ok := types.LimitsPreset(applyLimits)
	if !ok {
		return nil, fmt.Errorf("unknown limits preset: %s", applyLimits)
	}
	opts.Limits = &limits
	return opts, nil
}

type applyReport struct {
	Batch string `json:"batch"`
	*treefile.Result
}

func runApply(ctx context.Context, storePath string, batches []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := applyOptions()
	if err != nil {
		return err
	}

	printVerbose("Applying to store: %s\n", storePath)
	printVerbose("Mode: %s, strict: %t, encoding: %s\n", opts.Mode, !opts.Lenient, opts.Encoding)

	var reports []applyReport
	for _, batch := range batches {
		if !jsonOut {
			printInfo("  Processing %s...\n", batch)
		}
		res, err := treefile.ApplyBatchFile(ctx, storePath, batch, opts)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", batch, err)
		}
		reports = append(reports, applyReport{Batch: batch, Result: res})
		if !jsonOut {
			printResult(res)
		}
	}

	if jsonOut {
		return printJSON(reports)
	}
	if opts.DryRun {
		printInfo("✓ Dry run complete, %s unchanged\n", storePath)
	} else {
		printInfo("✓ Apply complete\n")
	}
	return nil
}

func printResult(res *treefile.Result) {
	printInfo("  ✓ %d operations, %d primitives applied (sequence %d)\n",
		res.Operations, res.Applied.Applied, res.Sequence)
	printVerbose("    batch %s, %d buckets checked\n", res.BatchID, res.Applied.Buckets)
	for kind, n := range res.ByKind {
		printVerbose("    %-18s %d\n", kind, n)
	}
	for _, op := range res.Patch {
		printInfo("    %s\n", op.String())
	}
}
