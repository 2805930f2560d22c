package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"landscaper/internal/domain"
	"landscaper/internal/services/restructure"
)

// follower prints the changelog after every change and notices when the
// room switched to another landscape. It runs on the event loop.
type follower struct {
	w        io.Writer
	session  *restructure.Session
	token    domain.LandscapeToken
	switched chan domain.LandscapeToken
}

func (f *follower) LandscapeChanged(reason string) {
	if t := f.session.Token(); t != f.token {
		select {
		case f.switched <- t:
		default:
		}
		return
	}
	fmt.Fprintf(f.w, "-- %s\n", reason)
	printChangelog(f.w, f.session.ChangelogLines())
}

var _ domain.ChangeListener = (*follower)(nil)

// join <token>: follow the edits of the other participants.
func joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <token>",
		Short: "Join a landscape and print the changelog as edits arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !wire.Online() {
				return fmt.Errorf("no relay configured. use --relay")
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			token := domain.LandscapeToken(args[0])

			for {
				a, err := wire.Open(ctx, token)
				if err != nil {
					return err
				}
				f := &follower{w: w, session: a.Session, token: token, switched: make(chan domain.LandscapeToken, 1)}
				a.Session.SetListener(f)
				a.Start(ctx)
				fmt.Fprintf(w, "joined %s as %s\n", token, wire.Self)

				stopped := make(chan error, 1)
				go func() { stopped <- a.Wait() }()

				select {
				case <-ctx.Done():
					return a.Close()
				case next := <-f.switched:
					_ = a.Close()
					fmt.Fprintf(w, "landscape changed to %s, rejoining\n", next)
					token = next
				case err := <-stopped:
					_ = a.Close()
					if err == nil {
						err = errors.New("relay connection closed")
					}
					return err
				}
			}
		},
	}
}
