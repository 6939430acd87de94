package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives the writer a moment to finish before onChange runs.
const settleDelay = 100 * time.Millisecond

// Watch monitors path for writes and calls onChange after each one.
// It blocks until ctx is done or the watcher fails to start.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so atomic renames of the file are seen too
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			time.Sleep(settleDelay)
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher error", "path", absPath, "error", err)
		}
	}
}
