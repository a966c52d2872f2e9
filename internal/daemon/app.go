// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/devfront/internal/log"
	"github.com/rs/zerolog"
)

// Runner is a long-lived background subsystem that stops when ctx is done.
type Runner interface {
	Run(ctx context.Context) error
}

// App owns the long-lived runtime lifecycle (the asset watcher) and
// delegates server management to Manager.
type App struct {
	logger  zerolog.Logger
	manager Manager
	watcher Runner
}

// NewApp creates a new App orchestrator. watcher may be nil.
func NewApp(logger zerolog.Logger, manager Manager, watcher Runner) *App {
	return &App{
		logger:  logger,
		manager: manager,
		watcher: watcher,
	}
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best-effort: without it assets are still served, only
	// transformed bodies are revalidated by mtime instead of purged eagerly.
	if a.watcher != nil {
		g.Go(func() error {
			if err := a.watcher.Run(ctx); err != nil {
				a.logger.Warn().
					Err(err).
					Str(log.FieldEvent, "watcher.start_failed").
					Msg("asset watcher failed, continuing without it")
			}
			return nil
		})
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}
