package settings

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the settings file whenever it changes on disk and calls
// onChange (if non-nil) with the new settings. The parent directory is
// watched so that editors which replace the file by rename are seen.
// It blocks until ctx is cancelled.
func (l *Live) Watch(ctx context.Context, debounce time.Duration, onChange func(Settings)) error {
	if l.path == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	target, err := filepath.Abs(l.path)
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop() // don't fire until we have events
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("fsnotify error", "err", err)

		case <-timer.C:
			if err := l.Reload(); err != nil {
				continue
			}
			l.logger.Info("settings reloaded", "path", l.path)
			if onChange != nil {
				onChange(l.Current())
			}
		}
	}
}
