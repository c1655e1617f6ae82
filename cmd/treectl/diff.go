package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/pkg/treefile"
)

func init() {
	rootCmd.AddCommand(newDiffCmd())
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <store1> <store2>",
		Short: "Compare two stores",
		Long: `The diff command prints the JSON Patch (RFC 6902) that turns the first
store's document into the second's. Paths follow the nested snapshot form:
/children/0/attrs/1/value and so on.

Example:
  treectl diff before.tree.json after.tree.json
  treectl diff before.tree.json after.tree.json --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1])
		},
	}
}

func runDiff(a, b string) error {
	patch, err := treefile.Diff(a, b)
	if err != nil {
		return err
	}

	if jsonOut {
		if patch == nil {
			return printJSON([]struct{}{})
		}
		return printJSON(patch)
	}

	if len(patch) == 0 {
		printInfo("No differences\n")
		return nil
	}
	for _, op := range patch {
		printInfo("%s\n", op.String())
	}
	printInfo("\n%d change(s)\n", len(patch))
	return nil
}
