package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events editors emit on save.
const DefaultWatchDebounce = 150 * time.Millisecond

// SettingsWatcher reloads a settings asset whenever its file changes and
// hands the new asset to a callback. Invalid files are logged and skipped,
// so the last good settings stay in effect.
type SettingsWatcher struct {
	path     string
	debounce time.Duration
	onChange func(*SettingsData)
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// NewSettingsWatcher watches path. The parent directory is watched rather
// than the file itself so that editors replacing the file atomically are
// still seen.
func NewSettingsWatcher(path string, onChange func(*SettingsData), logger *slog.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving settings path %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating settings watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &SettingsWatcher{
		path:     abs,
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		logger:   logger,
		watcher:  w,
	}, nil
}

// SetDebounce overrides the debounce interval. Call before Run.
func (sw *SettingsWatcher) SetDebounce(d time.Duration) {
	sw.debounce = d
}

// Run processes file events until ctx is cancelled. It always closes the
// underlying watcher before returning.
func (sw *SettingsWatcher) Run(ctx context.Context) error {
	defer sw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != sw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Reset(sw.debounce)
			}
			fire = timer.C

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return nil
			}
			sw.logger.Warn("settings watcher error", "path", sw.path, "error", err)

		case <-fire:
			fire = nil
			sw.reload()
		}
	}
}

func (sw *SettingsWatcher) reload() {
	data, err := LoadSettings(sw.path)
	if err != nil {
		sw.logger.Warn("settings reload failed", "path", sw.path, "error", err)
		return
	}
	sw.logger.Info("settings reloaded", "path", sw.path, "name", data.Name)
	sw.onChange(data)
}
