package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

var initName string

func init() {
	cmd := newInitCmd()
	cmd.Flags().StringVar(&initName, "name", "", "Store name (default: file name without extension)")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <store>",
		Short: "Create an empty store file",
		Long: `The init command writes a new store containing only the document node.
It refuses to overwrite an existing file.

Example:
  treectl init doc.tree.json
  treectl init doc.tree.json --name catalog`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
}

func runInit(path string) error {
	name := initName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := treefile.Create(path, name); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"store": path,
			"name":  name,
		})
	}
	printInfo("✓ Created %s (%s)\n", path, name)
	return nil
}
