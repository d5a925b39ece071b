package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/kdrama/pkg/logger"
)

// Watch reloads the dataset whenever its file is written or replaced, until
// ctx is done. The parent directory is watched so editors that save by
// renaming a temp file are picked up too. Failed reloads keep the current
// snapshot.
func (s *DatasetStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if _, err := s.Reload(ctx); err != nil && s.log != nil {
				s.log.Warn(ctx, "dataset reload failed, keeping previous snapshot",
					logger.String("path", s.path), logger.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if s.log != nil {
				s.log.Error(ctx, "dataset watcher error", logger.Error(err))
			}
		}
	}
}
