package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rowanfield/cartsync/internal/config"
	"github.com/rowanfield/cartsync/internal/connectivity"
	"github.com/rowanfield/cartsync/internal/engine"
	"github.com/rowanfield/cartsync/internal/remote"
	"github.com/rowanfield/cartsync/internal/snapshot"
)

// app assembles the engine and its collaborators for one CLI invocation.
//
// Lifecycle per command: open the snapshot store, detect connectivity,
// load cached state, then signal the startup connectivity transition -
// which replays any mutations queued by earlier offline invocations -
// before the command's own mutation runs.
type app struct {
	cfg     config.Config
	store   *snapshot.SQLite
	monitor connectivity.Monitor
	eng     *engine.Engine
}

func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
	}
	store, err := snapshot.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open snapshot store", err)
	}

	monitor := detectConnectivity(cfg, opts)
	online := monitor.Online()

	rem := remote.NewHTTPStore(cfg.Remote.BaseURL, cfg.Remote.Timeout.Std())
	eng := engine.New(store, rem, engine.WithQueueStore(store))

	if err := eng.Load(ctx, online); err != nil {
		store.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load items", err)
	}

	// Startup counts as the offline-to-online transition: queued offline
	// work from previous invocations replays now.
	eng.SetOnline(online)

	return &app{cfg: cfg, store: store, monitor: monitor, eng: eng}, nil
}

// detectConnectivity picks the monitor for this invocation. The offline
// flag and a missing remote endpoint both pin the state to offline; the
// probe's construction-time reading covers the rest.
func detectConnectivity(cfg config.Config, opts *RootOptions) connectivity.Monitor {
	if opts.Offline || cfg.Offline {
		slog.Debug("connectivity forced offline")
		return connectivity.NewManual(false)
	}
	if cfg.Remote.BaseURL == "" {
		slog.Debug("no remote endpoint configured, staying offline")
		return connectivity.NewManual(false)
	}
	return connectivity.NewProbe(opts.ProbeInterval)
}

// finish drains the engine's remote follow-up work and closes the store.
func (a *app) finish(ctx context.Context) {
	a.eng.Drain(ctx)
	if err := a.store.Close(); err != nil {
		slog.Warn("snapshot store close failed", "error", err)
	}
}
