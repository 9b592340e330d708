package flatten

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the flatten root and rebuilds the aggregate on change.
// Every rebuild is a full run; the aggregate is never patched in place.
type Watcher struct {
	opts         Options
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	outputPath   string
	done         chan struct{}

	mu         sync.Mutex
	dirty      bool
	lastChange time.Time

	// OnRebuild, if set, is called after every successful rebuild.
	OnRebuild func(*Stats)
}

// NewWatcher creates a file system watcher for the flatten root.
func NewWatcher(opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	outputPath := opts.Output
	if abs, err := filepath.Abs(outputPath); err == nil {
		outputPath = abs
	}

	return &Watcher{
		opts:         opts,
		watcher:      fsWatcher,
		debounceTime: 500 * time.Millisecond,
		outputPath:   outputPath,
		done:         make(chan struct{}),
	}, nil
}

// Start begins watching for file changes. Blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.opts.Root); err != nil {
		return err
	}

	go w.debounceLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			close(w.done)
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

// handleEvent marks the tree dirty for the next rebuild tick.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	// Rebuilds write the aggregate; don't let that retrigger the watcher.
	if name, err := filepath.Abs(event.Name); err == nil && name == w.outputPath {
		return
	}

	// New directories need to be watched too.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				log.Warn("watching new directory", "path", event.Name, "err", err)
			}
		}
	}

	w.mu.Lock()
	w.dirty = true
	w.lastChange = time.Now()
	w.mu.Unlock()
}

// debounceLoop rebuilds the aggregate once changes have settled.
func (w *Watcher) debounceLoop(ctx context.Context) {
	ticker := time.NewTicker(w.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			w.mu.Lock()
			ready := w.dirty && time.Since(w.lastChange) >= w.debounceTime
			if ready {
				w.dirty = false
			}
			w.mu.Unlock()

			if !ready {
				continue
			}

			stats, err := Run(w.opts)
			if err != nil {
				log.Error("rebuilding aggregate", "err", err)
				continue
			}
			if w.OnRebuild != nil {
				w.OnRebuild(stats)
			}
		}
	}
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}
