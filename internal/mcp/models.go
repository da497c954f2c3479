package mcp

// MCPServerConfig contains configuration for the MCP server.
type MCPServerConfig struct {
	SchemaPath    string   // Schema file re-read on every tool call
	TableKeywords []string // Extra create_table-like helpers
	ViewKeywords  []string // Extra create_view-like helpers
	DebounceMs    int      // Reload delay after the schema changes
}

// DefaultMCPServerConfig returns default MCP server configuration.
func DefaultMCPServerConfig() *MCPServerConfig {
	return &MCPServerConfig{
		SchemaPath: "db/schema.rb",
	}
}

// DefinitionInfo summarizes one definition for schema_list.
type DefinitionInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

// SchemaListResponse is the JSON response of the schema_list tool.
type SchemaListResponse struct {
	Definitions []DefinitionInfo `json:"definitions"`
	Total       int              `json:"total"`
}

// SchemaExtractResponse is the JSON response of the schema_extract tool.
type SchemaExtractResponse struct {
	Source    string   `json:"source"`
	Matched   []string `json:"matched"`
	Unmatched []string `json:"unmatched"`
}
