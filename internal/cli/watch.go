package cli

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rowanfield/cartsync/internal/connectivity"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Interval time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the sync loop, replaying whenever connectivity returns",
		Long: `Run the engine as a long-lived process.

The connectivity monitor polls the platform's interface state; every
offline-to-online transition replays the pending queue. Stop with
Ctrl-C.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 5*time.Second, "connectivity poll interval")

	return cmd
}

func runWatch(parent context.Context, opts *WatchOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts.ProbeInterval = opts.Interval
	a, err := newApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}

	// A forced-offline session gets a Manual monitor and has no
	// transitions to watch for; otherwise drive the engine from the
	// probe newApp already constructed.
	if probe, ok := a.monitor.(*connectivity.Probe); ok {
		probe.Subscribe(a.eng.SetOnline)
		go probe.Run(ctx)
	}

	slog.Info("watching", "online", a.eng.Online(), "pending", a.eng.PendingCount())
	err = a.eng.Run(ctx)
	a.finish(context.Background()) // drain leftovers with a fresh context

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
