package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mercator-hq/yamllist/pkg/config"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned by Watch when the watcher is already active.
var ErrAlreadyRunning = errors.New("watcher already running")

// ChangeFunc is called with the files that changed during one debounce
// window. An error is logged and watching continues.
type ChangeFunc func(paths []string) error

// FileWatcher watches a document file, or a directory of documents, and
// reports changes after a quiet period.
type FileWatcher struct {
	path   string
	single string // absolute file path when watching one file
	config config.WatchConfig
	logger *slog.Logger

	watcher *fsnotify.Watcher

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	closeErr  error
}

// NewFileWatcher creates a watcher for path, which may be a file or a
// directory. Zero config fields fall back to the package defaults.
func NewFileWatcher(path string, cfg config.WatchConfig) (*FileWatcher, error) {
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = config.DefaultWatchDebounceInterval
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = config.DefaultWatchExtensions
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch path: %w", err)
	}

	fw := &FileWatcher{
		path:   path,
		config: cfg,
		logger: slog.Default().With("component", "watch"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	if !info.IsDir() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		fw.single = abs
	}

	fw.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return fw, nil
}

// Watch blocks until ctx is cancelled or Stop is called, invoking onChange
// for every debounced batch of changed files.
// onChange is never running once Watch has returned.
func (fw *FileWatcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	debounce := NewDebouncer(fw.config.DebounceInterval, func(paths []string) {
		fw.logger.Info("files changed", "count", len(paths))
		if err := onChange(paths); err != nil {
			fw.logger.Error("change handler failed", "error", err)
		}
	})

	defer func() {
		debounce.Stop()
		fw.close()
		close(fw.doneCh)
	}()

	if err := fw.addPath(); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped", "reason", "context cancelled")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) && fw.watchNewDirectory(event.Name) {
				continue
			}
			if !fw.shouldProcess(event) {
				continue
			}
			fw.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			debounce.Trigger(event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop ends a running Watch and releases the underlying watcher. It is safe
// to call Stop more than once, or without ever calling Watch.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	fw.stopOnce.Do(func() { close(fw.stopCh) })
	if running {
		<-fw.doneCh
	}
	return fw.close()
}

func (fw *FileWatcher) close() error {
	fw.closeOnce.Do(func() {
		if err := fw.watcher.Close(); err != nil {
			fw.closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return fw.closeErr
}

// addPath registers the watch. A single file is watched through its parent
// directory so editors that save by rename are still seen.
func (fw *FileWatcher) addPath() error {
	if fw.single != "" {
		return fw.watcher.Add(filepath.Dir(fw.single))
	}
	return fw.addDirectory(fw.path)
}

func (fw *FileWatcher) addDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.config.SkipHidden && isHidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// watchNewDirectory adds a directory created under a watched tree and
// reports whether path was a directory.
func (fw *FileWatcher) watchNewDirectory(path string) bool {
	if fw.single != "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if fw.config.SkipHidden && isHidden(path) {
		return true
	}
	if err := fw.addDirectory(path); err != nil {
		fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
	return true
}

func (fw *FileWatcher) shouldProcess(event fsnotify.Event) bool {
	// Removals leave nothing to list.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	if fw.single != "" {
		abs, err := filepath.Abs(event.Name)
		return err == nil && abs == fw.single
	}
	if fw.config.SkipHidden && isHidden(event.Name) {
		return false
	}
	return fw.hasExtension(event.Name)
}

func (fw *FileWatcher) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range fw.config.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
