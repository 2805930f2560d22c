package commands

import (
	"github.com/spf13/cobra"
)

// show <landscape>: print the landscape tree.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <landscape.json|token>",
		Short: "Print a landscape as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			printTree(cmd.OutOrStdout(), a.Session.Model())
			return nil
		},
	}
}
