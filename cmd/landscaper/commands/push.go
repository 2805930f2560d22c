package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"landscaper/internal/domain"
	"landscaper/internal/store"
)

// push <landscape.json>: upload a snapshot so participants can join it.
func pushCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "push <landscape.json>",
		Short: "Upload a landscape snapshot to the relay or the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ls, err := store.ReadLandscapeFile(args[0])
			if err != nil {
				return err
			}
			if token != "" {
				ls.Token = domain.LandscapeToken(token)
			}
			if ls.Token == "" {
				return fmt.Errorf("snapshot has no landscapeToken. use --token")
			}
			if err := wire.Store.SaveLandscape(cmd.Context(), ls); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", ls.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "store under this token instead of the snapshot's")
	return cmd
}
