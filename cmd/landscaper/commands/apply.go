package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landscaper/internal/app"
	"landscaper/internal/services/restructure"
	"landscaper/internal/store"
)

// apply <landscape> <script.yaml>: run an edit script as local edits.
func applyCmd() *cobra.Command {
	var (
		out    string
		commit bool
		tree   bool
	)
	cmd := &cobra.Command{
		Use:   "apply <landscape.json|token> <script.yaml>",
		Short: "Apply a YAML edit script and print the changelog",
		Long: "Enters restructure mode, runs every step of the script as a local edit " +
			"and prints the resulting changelog. With --relay the edits are published " +
			"to the other participants of the landscape.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			sc, err := app.ParseScript(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			a, err := open(ctx, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			a.Start(ctx)

			if err := a.Apply(ctx, sc); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			return a.Do(ctx, func(_ context.Context, s *restructure.Session) error {
				printChangelog(w, s.ChangelogLines())
				if commit {
					s.Exit(true)
				}
				if tree {
					printTree(w, s.Model())
				}
				if out == "" {
					return nil
				}
				if err := store.WriteLandscapeFile(out, s.Snapshot()); err != nil {
					return err
				}
				fmt.Fprintf(w, "wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the resulting landscape to this file")
	cmd.Flags().BoolVar(&commit, "commit", false, "leave restructure mode keeping the edits")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the resulting tree")
	return cmd
}
