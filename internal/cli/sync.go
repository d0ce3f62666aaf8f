package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued offline mutations",
		Long: `Replay queued offline mutations against the remote store.

Replay normally runs on its own whenever connectivity returns; this
command forces the same pass and reports what is still stuck.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// newApp signals the startup connectivity transition, which is
			// exactly the replay trigger; finish drains it.
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			before := a.eng.PendingCount()
			a.finish(ctx)

			out := cmd.OutOrStdout()
			remaining := a.eng.PendingCount()
			switch {
			case !a.eng.Online():
				fmt.Fprintf(out, "offline: %d mutation(s) still queued\n", remaining)
			case remaining == 0 && before == 0:
				fmt.Fprintln(out, "nothing to sync")
			case remaining == 0:
				fmt.Fprintf(out, "synced %d mutation(s)\n", before)
			default:
				fmt.Fprintf(out, "synced %d mutation(s), %d still failing\n", before-remaining, remaining)
			}
			return nil
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show connectivity and sync state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			if opts.Format == "json" {
				return renderList(cmd.OutOrStdout(), opts.Format, listView{
					Items:        a.eng.Items(),
					PendingTotal: a.eng.PendingTotal(),
					PendingCount: a.eng.PendingCount(),
					Online:       a.eng.Online(),
				})
			}

			out := cmd.OutOrStdout()
			state := "offline"
			if a.eng.Online() {
				state = "online"
			}
			fmt.Fprintf(out, "connectivity:  %s\n", state)
			fmt.Fprintf(out, "items:         %d\n", len(a.eng.Items()))
			fmt.Fprintf(out, "pending sync:  %d\n", a.eng.PendingCount())
			fmt.Fprintf(out, "pending total: %.2f\n", a.eng.PendingTotal())
			return nil
		},
	}
}
