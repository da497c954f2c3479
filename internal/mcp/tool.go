package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/ais/internal/schema"
)

// AddSchemaListTool registers the schema_list tool with an MCP server.
func AddSchemaListTool(s *server.MCPServer, source DefinitionSource) {
	tool := mcp.NewTool(
		"schema_list",
		mcp.WithDescription("List the tables and views declared in the project's schema.rb, with their kind and line number."),
		mcp.WithString("kind",
			mcp.Description("Only list definitions of this kind: 'table' or 'view'. Leave empty to list both."),
			mcp.Enum("table", "view")),
	)

	s.AddTool(tool, createSchemaListHandler(source))
}

// AddSchemaExtractTool registers the schema_extract tool with an MCP server.
func AddSchemaExtractTool(s *server.MCPServer, source DefinitionSource) {
	tool := mcp.NewTool(
		"schema_extract",
		mcp.WithDescription("Return the verbatim create_table / create_view blocks for the requested names from the project's schema.rb. Use this to give focused database context instead of the whole schema."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Description("Table or view names to extract (e.g., ['users', 'orders'])")),
		mcp.WithBoolean("glob",
			mcp.Description("Treat names as glob patterns such as 'user_*' (default: false)")),
	)

	s.AddTool(tool, createSchemaExtractHandler(source))
}

// createSchemaListHandler creates the handler function for the schema_list tool.
func createSchemaListHandler(source DefinitionSource) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := argumentsOf(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind, err := args.kind()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		defs, err := source.Definitions(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if kind != 0 {
			defs = schema.FilterKind(defs, kind)
		}

		response := &SchemaListResponse{
			Definitions: make([]DefinitionInfo, 0, len(defs)),
			Total:       len(defs),
		}
		for _, d := range defs {
			response.Definitions = append(response.Definitions, DefinitionInfo{
				Name: d.Name,
				Kind: d.Kind.String(),
				Line: d.Line,
			})
		}

		return marshalResult(response)
	}
}

// createSchemaExtractHandler creates the handler function for the schema_extract tool.
func createSchemaExtractHandler(source DefinitionSource) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := argumentsOf(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		names, err := args.names()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		defs, err := source.Definitions(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sel schema.Selection
		if args.glob() {
			sel, err = schema.SelectGlob(defs, names)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		} else {
			sel = schema.Select(defs, names)
		}

		if !sel.Found() {
			return mcp.NewToolResultError(fmt.Sprintf(
				"no matching tables found for %s; available: %s",
				strings.Join(names, ", "), strings.Join(schema.Names(defs), ", "))), nil
		}

		response := &SchemaExtractResponse{
			Source:    schema.Render(sel.Matched),
			Matched:   schema.Names(sel.Matched),
			Unmatched: sel.Unmatched,
		}
		if response.Unmatched == nil {
			response.Unmatched = []string{}
		}

		return marshalResult(response)
	}
}

// marshalResult returns v as JSON text (mcp-go convention).
func marshalResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
