package core

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events an editor emits on save.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch refreshes s whenever its backing file is changed by another program.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename are still seen. Writes made by the store
// itself do not trigger a reload. onReload, if non-nil, is called after
// each refresh that replaced the table. Watch returns once the watcher is
// running; it stops when ctx is cancelled.
func Watch(ctx context.Context, s *Store, debounce time.Duration, onReload func()) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}
	s.logger.Info("watching dataset for external changes", "path", s.Path())

	go func() {
		defer func() { _ = w.Close() }()

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.Path() {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					timer.Reset(debounce)
				}
			case <-timer.C:
				changed, err := s.Refresh()
				switch {
				case errors.Is(err, ErrMissingFile):
					s.logger.Debug("dataset file gone, keeping current table", "path", s.Path())
				case err != nil:
					s.logger.Warn("failed to refresh dataset, keeping current table", "path", s.Path(), "error", err)
				case changed && onReload != nil:
					onReload()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("error watching dataset", "path", s.Path(), "error", err)
			}
		}
	}()
	return nil
}
