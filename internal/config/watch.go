package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// Watch reloads the file whenever it changes on disk and calls onChange with
// the new snapshot. onChange runs on the watcher goroutine, so callers must
// hand the value over to their own event loop. Watch returns once the
// watcher is running; it stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	go s.watchLoop(ctx, w, onChange)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, onChange func(Settings)) {
	defer w.Close()

	name := filepath.Clean(s.path)
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := s.reload(); err != nil {
				log.Printf("[config] reload failed, keeping previous settings: %v", err)
				continue
			}
			log.Printf("[config] reloaded %s", s.path)
			if onChange != nil {
				onChange(s.Snapshot())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watcher error: %v", err)
		}
	}
}
