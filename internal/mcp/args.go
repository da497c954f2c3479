package mcp

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/ais/internal/schema"
)

// toolArgs is the decoded argument object of a tool call.
type toolArgs map[string]interface{}

// argumentsOf returns the arguments of request. A call without arguments
// yields an empty set.
func argumentsOf(request mcp.CallToolRequest) (toolArgs, error) {
	switch args := request.Params.Arguments.(type) {
	case nil:
		return toolArgs{}, nil
	case map[string]interface{}:
		return toolArgs(args), nil
	}
	return nil, errors.New("invalid arguments format")
}

// kind reads the optional kind filter of schema_list. Zero means both kinds.
func (a toolArgs) kind() (schema.Kind, error) {
	val, ok := a["kind"]
	if !ok {
		return 0, nil
	}

	str, ok := val.(string)
	if !ok {
		return 0, errors.New("kind must be a string")
	}
	if str == "" {
		return 0, nil
	}

	k, ok := schema.ParseKind(str)
	if !ok {
		return 0, fmt.Errorf("kind must be 'table' or 'view', got '%s'", str)
	}
	return k, nil
}

// names reads the names requested from schema_extract. Non-string and empty
// entries are dropped; at least one name must remain.
func (a toolArgs) names() ([]string, error) {
	arr, ok := a["names"].([]interface{})
	if !ok {
		return nil, errors.New("names parameter is required")
	}

	names := make([]string, 0, len(arr))
	for _, item := range arr {
		if str, ok := item.(string); ok && str != "" {
			names = append(names, str)
		}
	}
	if len(names) == 0 {
		return nil, errors.New("names must contain at least one table or view name")
	}
	return names, nil
}

// glob reports whether schema_extract should treat names as patterns.
// Anything other than a boolean true means exact names.
func (a toolArgs) glob() bool {
	b, _ := a["glob"].(bool)
	return b
}
