package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/ais/internal/mcp"
)

var mcpFile string

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for schema lookups",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
look up table and view definitions on demand.

The MCP server:
- Provides schema_list to enumerate tables and views
- Provides schema_extract to fetch verbatim definitions by name or glob
- Reloads the schema file when it changes
- Communicates via stdio (standard MCP transport)

Example:
  ais mcp
  ais mcp -f db/schema.rb`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVarP(&mcpFile, "file", "f", "db/schema.rb", "schema file to serve")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		cfg.Schema.Path = mcpFile
	}

	// stdout carries the protocol, so status goes to stderr
	fmt.Fprintf(os.Stderr, "ais MCP Server\n")
	fmt.Fprintf(os.Stderr, "Schema: %s\n\n", cfg.Schema.Path)

	server, err := mcp.NewMCPServer(&mcp.MCPServerConfig{
		SchemaPath:    cfg.Schema.Path,
		TableKeywords: cfg.Extract.TableKeywords,
		ViewKeywords:  cfg.Extract.ViewKeywords,
		DebounceMs:    cfg.Watch.DebounceMs,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	return server.Serve(cmd.Context())
}
