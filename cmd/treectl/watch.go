package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/internal/logger"
	"github.com/joshuapare/treekit/pkg/treefile"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <store> <dir>",
		Short: "Apply batch files as they are written into a directory",
		Long: `The watch command applies every batch file created or rewritten in dir
to the store. Events are debounced, so a burst of writes to one file applies
it once. File name patterns and the debounce interval come from the config
file (watch.patterns, watch.debounce). A failed batch is reported and the
watch continues. Stop with Ctrl-C.

Example:
  treectl watch doc.tree.json ./inbox
  treectl watch doc.tree.json ./inbox --config treectl.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&applyMode, "mode", "", "Apply mode: interleaved or validate-first (default from config)")
	cmd.Flags().BoolVar(&applyLenient, "lenient", false, "Accept primitives from another identity space")
	cmd.Flags().StringVar(&applyLimits, "limits", "default", "Limits preset (default, strict, relaxed)")
	return cmd
}

func runWatch(ctx context.Context, storePath, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if _, err := os.Stat(storePath); err != nil {
		return fmt.Errorf("store file not found: %s", storePath)
	}
	opts, err := applyOptions()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	printInfo("Watching %s for %v, applying to %s\n", dir, cfg.Watch.Patterns, storePath)
	match := func(name string) bool { return matchAny(cfg.Watch.Patterns, name) }
	apply := func(name string) {
		res, err := treefile.ApplyBatchFile(ctx, storePath, name, opts)
		if err != nil {
			logger.Error("batch failed", "file", name, "error", err)
			printError("%s: %v\n", name, err)
			return
		}
		printInfo("  ✓ %s\n", name)
		printResult(res)
	}
	return watchLoop(ctx, watcher.Events, watcher.Errors, cfg.Watch.Debounce, match, apply)
}

// watchLoop collects create and write events for matching files and calls
// apply for each of them, in name order, once no event has arrived for
// debounce. It returns when ctx is done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error,
	debounce time.Duration, match func(string) bool, apply func(string),
) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !match(event.Name) {
				continue
			}
			logger.Debug("batch file changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timer.C:
			names := slices.Sorted(maps.Keys(pending))
			clear(pending)
			for _, name := range names {
				apply(name)
			}
		}
	}
}

// matchAny reports whether the base name of path matches one of patterns.
func matchAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
