package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/internal/config"
)

var configForce bool

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the treectl configuration file",
	}
	initCmd := newConfigInitCmd()
	initCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	rootCmd.AddCommand(cmd)
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `The config init command writes a commented default configuration to
path (default: treectl.yaml). Pass it back with --config.

Example:
  treectl config init
  treectl config init ~/.treectl.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "treectl.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(path)
		},
	}
}

func runConfigInit(path string) error {
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s: %w (use --force to overwrite)", path, os.ErrExist)
	}
	if err := config.SaveDefaultConfig(path); err != nil {
		return err
	}
	printInfo("✓ Wrote %s\n", path)
	return nil
}
