package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/vterm/commands"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the dispatch table
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin terminal commands.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, spec := range commands.Builtins().Specs() {
			storage := ""
			if spec.Async {
				storage = "storage"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Join(spec.Names(), ", "), storage, spec.Short)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
