package navigation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"repolines/logging"
)

// FileFeed follows a location file written by a browser helper.
// The file holds the current page URL; every change counts as one mutation batch.
type FileFeed struct {
	batches  chan MutationBatch
	location string
	mu       sync.RWMutex
	path     string
	watcher  *fsnotify.Watcher
}

// NewFileFeed creates a feed for path and reads its current content
func NewFileFeed(path string) (*FileFeed, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	f := &FileFeed{
		batches: make(chan MutationBatch, 16),
		path:    absPath,
		watcher: watcher,
	}
	if err := f.reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		watcher.Close()
		return nil, err
	}
	return f, nil
}

// Path returns the absolute path of the location file
func (f *FileFeed) Path() string {
	return f.path
}

// Start watches the file until ctx is done or Close is called.
// The directory is watched so editors that replace the file are handled.
func (f *FileFeed) Start(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	if err := f.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	logging.Logger.Info("Following location file", "path", f.path)
	go f.loop(ctx)
	return nil
}

// Close stops watching
func (f *FileFeed) Close() error {
	return f.watcher.Close()
}

// Mutations implements MutationSource
func (f *FileFeed) Mutations() <-chan MutationBatch {
	return f.batches
}

// Location returns the last URL read from the file
func (f *FileFeed) Location() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.location
}

func (f *FileFeed) loop(ctx context.Context) {
	defer close(f.batches)
	name := filepath.Base(f.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := f.reload(); err != nil {
				logging.Logger.Debug("Location file not readable", "path", f.path, "error", err)
				continue
			}

			select {
			case f.batches <- MutationBatch{AddedNodes: 1}:
			default:
				// the consumer debounces, a full buffer already carries the signal
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Error("Location watcher error", "error", err)
		}
	}
}

func (f *FileFeed) reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = strings.TrimSpace(string(data))
	return nil
}
