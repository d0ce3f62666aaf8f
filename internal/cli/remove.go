package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item from the list",
		Long: `Remove an item.

Removing an item that was added while offline also cancels its queued
sync: the server never hears about it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			if err := a.eng.Remove(ctx, args[0]); err != nil {
				return WrapExitError(ExitFailure, "remove rejected", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "toggle <id>",
		Short:         "Toggle an item's completed state",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.finish(ctx)

			item, err := a.eng.Toggle(ctx, args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "toggle rejected", err)
			}
			return renderItem(cmd.OutOrStdout(), opts.Format, item)
		},
	}
}
