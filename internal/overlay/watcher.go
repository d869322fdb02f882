// SPDX-License-Identifier: MIT

package overlay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/mangoverlay/mangoverlay/internal/log"
	"github.com/mangoverlay/mangoverlay/internal/metrics"
)

// DefaultDebounce collapses the event bursts editors produce into one
// reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads the service when the config file changes on disk.
// It watches the parent directory rather than the file: atomic saves
// replace the inode, which would silently kill a watch on the file
// itself.
type Watcher struct {
	svc      *Service
	debounce time.Duration
	logger   zerolog.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher for svc. debounce <= 0 uses
// DefaultDebounce.
func NewWatcher(svc *Service, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		svc:      svc,
		debounce: debounce,
		logger:   log.WithComponent("watcher"),
	}
}

// Start begins watching and returns immediately. The loop stops when
// ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.svc.Path())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fsw = fsw

	w.logger.Info().
		Str("event", "watcher.started").
		Str("path", w.svc.Path()).
		Dur("debounce", w.debounce).
		Msg("watching config file for changes")

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()

	target := filepath.Clean(w.svc.Path())
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.logger.Info().Str("event", "watcher.stopped").Msg("config watcher stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// Write and Create cover editors; Rename and Remove
			// cover atomic replacement and deletion.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			metrics.WatcherEventsTotal.WithLabelValues(event.Op.String()).Inc()
			w.logger.Debug().
				Str("event", "watcher.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.reload(ctx)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).
				Str("event", "watcher.error").
				Msg("config watcher error")
		}
	}
}

// reload skips changes the service itself wrote, identified by content
// hash, so saves do not echo back as external reloads.
func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(w.svc.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Error().Err(err).
			Str("event", "watcher.read_failed").
			Msg("cannot read changed config")
		return
	}
	if hashContent(data) == w.svc.Snapshot().Hash {
		w.logger.Debug().
			Str("event", "watcher.own_write").
			Msg("ignoring self-inflicted change")
		return
	}

	if err := w.svc.Load(ctx, "watcher"); err != nil {
		w.logger.Error().Err(err).
			Str("event", "watcher.reload_failed").
			Msg("automatic reload failed")
	}
}
