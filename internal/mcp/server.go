package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/ais/internal/schema"
	"github.com/mvp-joe/ais/internal/watcher"
)

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config  *MCPServerConfig
	source  *CachedSource
	watcher watcher.FileWatcher
	mcp     *server.MCPServer
}

// NewMCPServer creates an MCP server exposing schema_list and schema_extract
// for the configured schema file.
func NewMCPServer(config *MCPServerConfig) (*MCPServer, error) {
	if config == nil {
		config = DefaultMCPServerConfig()
	}
	if config.SchemaPath == "" {
		return nil, fmt.Errorf("schema path is required")
	}

	scanner := schema.NewScanner(schema.KeywordOptions(config.TableKeywords, config.ViewKeywords)...)
	source := NewCachedSource(NewFileSource(config.SchemaPath, scanner))

	mcpServer := server.NewMCPServer(
		"ais-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddSchemaListTool(mcpServer, source)
	AddSchemaExtractTool(mcpServer, source)

	debounce := watcher.DefaultDebounce
	if config.DebounceMs > 0 {
		debounce = time.Duration(config.DebounceMs) * time.Millisecond
	}
	w, err := watcher.NewSchemaWatcher(config.SchemaPath, debounce)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema watcher: %w", err)
	}

	return &MCPServer{
		config:  config,
		source:  source,
		watcher: w,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Warm the cache; a missing file surfaces as a tool error later.
	if err := s.source.Reload(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	err := s.watcher.Start(ctx, func() {
		if err := s.source.Reload(ctx); err != nil {
			log.Printf("Warning: failed to reload schema: %v", err)
			return
		}
		log.Printf("Reloaded %s", s.config.SchemaPath)
	})
	if err != nil {
		return fmt.Errorf("failed to start schema watcher: %w", err)
	}
	defer s.watcher.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *MCPServer) Close() error {
	if s.watcher != nil {
		return s.watcher.Stop()
	}
	return nil
}
