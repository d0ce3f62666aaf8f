package cli

import (
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "Show the shopping list",
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

			return renderList(cmd.OutOrStdout(), opts.Format, listView{
				Items:        a.eng.Items(),
				PendingTotal: a.eng.PendingTotal(),
				PendingCount: a.eng.PendingCount(),
				Online:       a.eng.Online(),
			})
		},
	}
}
