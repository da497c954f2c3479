package mcp

import (
	"context"
	"sync"

	"github.com/mvp-joe/ais/internal/schema"
)

// DefinitionSource yields the current definitions of a schema.
type DefinitionSource interface {
	Definitions(ctx context.Context) ([]schema.Definition, error)
}

// Reloadable is implemented by sources that cache and can be refreshed.
type Reloadable interface {
	Reload(ctx context.Context) error
}

// fileSource rescans a schema file on every call so edits are picked up
// without restarting the server.
type fileSource struct {
	path    string
	scanner *schema.Scanner
}

// NewFileSource creates a DefinitionSource backed by the file at path.
func NewFileSource(path string, scanner *schema.Scanner) DefinitionSource {
	if scanner == nil {
		scanner = schema.NewScanner()
	}
	return &fileSource{path: path, scanner: scanner}
}

func (s *fileSource) Definitions(ctx context.Context) ([]schema.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contents, err := schema.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(contents), nil
}

// CachedSource keeps the last successful scan of an underlying source.
// Reload refreshes it; on failure the previous definitions are kept.
type CachedSource struct {
	inner DefinitionSource

	mu     sync.RWMutex
	defs   []schema.Definition
	loaded bool
}

// NewCachedSource wraps inner. Nothing is read until the first call.
func NewCachedSource(inner DefinitionSource) *CachedSource {
	return &CachedSource{inner: inner}
}

// Definitions returns the cached definitions, loading them on first use.
func (c *CachedSource) Definitions(ctx context.Context) ([]schema.Definition, error) {
	c.mu.RLock()
	if c.loaded {
		defs := c.defs
		c.mu.RUnlock()
		return defs, nil
	}
	c.mu.RUnlock()

	if err := c.Reload(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defs, nil
}

// Reload rescans the underlying source.
func (c *CachedSource) Reload(ctx context.Context) error {
	defs, err := c.inner.Definitions(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.defs = defs
	c.loaded = true
	c.mu.Unlock()
	return nil
}
