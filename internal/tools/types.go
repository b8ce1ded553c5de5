// Package tools defines the uniform tool-calling surface over vendor SDKs.
// A tool is input validation plus exactly one SDK call; vendor failures
// propagate to the caller unmodified.
package tools

import "context"

// Property describes one named argument in a tool schema.
type Property struct {
	Type        string      `json:"type"` // "string", "integer", "number", "boolean"
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
}

// Schema is a flat object schema: named primitive parameters, some required.
type Schema struct {
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties"`
}

// Tool couples a schema with an execute function. Execute receives arguments
// that already passed ValidateArgs.
type Tool struct {
	Name        string
	Description string
	Schema      Schema
	Execute     func(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// Float64Ptr is a convenience for schema bounds.
func Float64Ptr(v float64) *float64 { return &v }
