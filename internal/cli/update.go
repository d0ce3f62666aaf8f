package cli

import (
	"github.com/spf13/cobra"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Name      string
	Quantity  int
	UnitPrice float64
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item's name, quantity or price",
		Long: `Update an item. Unset flags keep the current value.

Example:
  cartsync update srv-42 --qty 3`,
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

			current, ok := a.eng.Get(args[0])
			if !ok {
				return WrapExitError(ExitFailure, "update rejected", nil)
			}

			name, qty, price := current.Name, current.Quantity, current.UnitPrice
			if cmd.Flags().Changed("name") {
				name = opts.Name
			}
			if cmd.Flags().Changed("qty") {
				qty = opts.Quantity
			}
			if cmd.Flags().Changed("price") {
				price = opts.UnitPrice
			}

			item, err := a.eng.Update(ctx, args[0], name, qty, price)
			if err != nil {
				return WrapExitError(ExitFailure, "update rejected", err)
			}
			return renderItem(cmd.OutOrStdout(), opts.Format, item)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().IntVar(&opts.Quantity, "qty", 0, "new quantity")
	cmd.Flags().Float64Var(&opts.UnitPrice, "price", 0, "new unit price")

	return cmd
}
