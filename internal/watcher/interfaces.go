package watcher

import "context"

// FileWatcher monitors a schema file for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback once per debounced burst of changes.
	Start(ctx context.Context, callback func()) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}
