package mapscript

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/dyle/rpgmapper-sub001/internal/platform/timeouts"
	"github.com/fsnotify/fsnotify"
)

// Watch calls run once, then again after every change to the file at path,
// until ctx is done. Failed runs are logged and watching goes on. The
// directory is watched so editors that replace the file are still seen.
func Watch(ctx context.Context, path string, logger *log.Logger, run func(context.Context) error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	runOnce := func() {
		if err := run(ctx); err != nil && logger != nil {
			logger.Printf("run %s: %v", path, err)
		}
	}
	runOnce()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(last) < timeouts.WatchDebounce {
				continue
			}
			last = now
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Printf("watch %s: %v", path, err)
			}
		}
	}
}
