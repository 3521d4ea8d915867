package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports external modifications of the target hosts file. Because
// the atomic writer (and many editors) replace the file by rename, the watch
// is placed on the parent directory and filtered to the target name.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	logger  *zap.Logger
}

// NewWatcher starts watching the directory containing path.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		path:    path,
		watcher: fsWatcher,
		changes: make(chan struct{}, 1),
		logger:  logger,
	}, nil
}

// Changes returns a channel that signals when the target file was modified
// on disk. Notifications are coalesced.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run pumps filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Info("hosts file changed on disk",
				zap.String("path", w.path),
				zap.String("op", event.Op.String()),
			)
			// Non-blocking send to coalesce bursts
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}
