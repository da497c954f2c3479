package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// schemaWatcher implements FileWatcher for a single file.
type schemaWatcher struct {
	watcher       *fsnotify.Watcher
	path          string             // Absolute path of the watched file
	debounceTime  time.Duration      // Quiet period before firing callback
	callback      func()             // Callback to invoke after a burst of changes
	ctx           context.Context    // Context for lifecycle management
	cancel        context.CancelFunc // Cancel function for internal context
	debounceTimer *time.Timer        // Current debounce timer
	timerMu       sync.Mutex         // Protects debounce timer
	stopOnce      sync.Once          // Ensures Stop() is idempotent
	doneCh        chan struct{}      // Signals watch goroutine has finished
}

// NewSchemaWatcher creates a watcher for the file at path.
// The parent directory is watched rather than the file itself so that editors
// and generators that replace the file by rename keep triggering events.
func NewSchemaWatcher(path string, debounce time.Duration) (FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "watch", Path: filepath.Dir(absPath), Err: os.ErrInvalid}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce < 0 {
		debounce = 0
	}

	return &schemaWatcher{
		watcher:      watcher,
		path:         absPath,
		debounceTime: debounce,
		doneCh:       make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (sw *schemaWatcher) Start(ctx context.Context, callback func()) error {
	if callback == nil {
		return nil
	}

	sw.callback = callback
	sw.ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch()
	return nil
}

// Stop stops the file watcher.
func (sw *schemaWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-sw.doneCh
		} else {
			close(sw.doneCh)
		}

		err = sw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (sw *schemaWatcher) watch() {
	defer close(sw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-sw.ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.shouldProcessEvent(event) {
				continue
			}
			sw.resetDebounceTimer(fireCh)

		case <-fireCh:
			if sw.callback != nil {
				sw.callback()
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Schema watcher error: %v", err)
		}
	}
}

// resetDebounceTimer restarts the quiet period, properly stopping the old timer.
func (sw *schemaWatcher) resetDebounceTimer(fireCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.debounceTimer = time.AfterFunc(sw.debounceTime, func() {
		// Non-blocking: one pending signal is enough
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (sw *schemaWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write, create and rename events for the watched file.
func (sw *schemaWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == sw.path
}
