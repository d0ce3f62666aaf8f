package cli

import (
	"github.com/spf13/cobra"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Quantity  int
	UnitPrice float64
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item to the list",
		Long: `Add an item to the shopping list.

The item is stored locally right away. While offline it carries a
temporary local id; the next sync replaces it with the server-assigned id.

Example:
  cartsync add Milk --qty 2 --price 3.50`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			item, err := a.eng.Add(ctx, args[0], opts.Quantity, opts.UnitPrice)
			if err != nil {
				return WrapExitError(ExitFailure, "add rejected", err)
			}
			return renderItem(cmd.OutOrStdout(), opts.Format, item)
		},
	}

	cmd.Flags().IntVar(&opts.Quantity, "qty", 1, "quantity")
	cmd.Flags().Float64Var(&opts.UnitPrice, "price", 0, "unit price")

	return cmd
}
