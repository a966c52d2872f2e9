// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/devfront/internal/log"
	"github.com/ManuGH/devfront/internal/metrics"
)

// DefaultWatchDebounce coalesces the burst of events a rebuild produces.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watcher reports changes below an asset directory. fsnotify is not
// recursive, so every subdirectory is added explicitly, including ones
// created later. When the directory does not exist yet, its parent is
// watched until it appears.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger
}

// NewWatcher creates a watcher that calls onChange once per burst of changes.
func NewWatcher(dir string, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &Watcher{
		dir:      filepath.Clean(dir),
		debounce: debounce,
		onChange: onChange,
		logger:   log.WithComponent("watcher"),
	}
}

// Run blocks until ctx is canceled. It returns nil on cancellation and an
// error only when the watcher cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	waitingForDir := false
	if err := w.addTree(fw, w.dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("watch %s: %w", w.dir, err)
		}
		parent := filepath.Dir(w.dir)
		if err := fw.Add(parent); err != nil {
			return fmt.Errorf("watch %s: %w", parent, err)
		}
		waitingForDir = true
		w.logger.Warn().
			Str(log.FieldEvent, "watcher.dir_missing").
			Str(log.FieldStaticDir, w.dir).
			Msg("asset directory does not exist yet, waiting for it")
	}

	w.logger.Info().
		Str(log.FieldEvent, "watcher.started").
		Str(log.FieldStaticDir, w.dir).
		Msg("watching asset directory")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, w.onChange)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(log.FieldEvent, "watcher.stopped").Msg("asset watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if waitingForDir {
				if filepath.Clean(event.Name) != w.dir || !event.Has(fsnotify.Create) {
					continue
				}
				if err := w.addTree(fw, w.dir); err != nil {
					w.logger.Warn().Err(err).Str(log.FieldEvent, "watcher.add_failed").Msg("failed to watch new asset directory")
					continue
				}
				_ = fw.Remove(filepath.Dir(w.dir))
				waitingForDir = false
				schedule()
				continue
			}

			if filepath.Clean(event.Name) == w.dir && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				// Output directory wiped by a clean build; wait for it to come back.
				if err := fw.Add(filepath.Dir(w.dir)); err == nil {
					waitingForDir = true
				}
				schedule()
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.logger.Warn().Err(err).Str(log.FieldPath, event.Name).Msg("failed to watch new directory")
					}
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			w.logger.Debug().
				Str(log.FieldEvent, "watcher.changed").
				Str("op", event.Op.String()).
				Str(log.FieldPath, event.Name).
				Msg("asset changed")
			schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			metrics.RecordWatcherError()
			w.logger.Error().
				Err(err).
				Str(log.FieldEvent, "watcher.error").
				Msg("asset watcher error")
		}
	}
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(p)
	})
}
