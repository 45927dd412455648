package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ToolSpec describes a tool the model may invoke. It uses the MCP tool shape
// {name, description, inputSchema}, which is also the native tool-use shape.
type ToolSpec = mcptypes.Tool

// ToolCall is a provider-issued request to run a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any

	// RawArguments is the argument payload exactly as the provider sent it.
	RawArguments string

	// ParseErr is set when RawArguments could not be decoded into Arguments.
	// The call is still answered, with an error result.
	ParseErr error
}

// ToolResult answers exactly one ToolCall, matched by CallID.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// ToolExecutor runs tools on behalf of the model.
//
// Arguments are passed through untouched; which keys are valid is up to the tool.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, arguments map[string]any) (string, error)
}

// ToolExecutorFunc adapts a function to ToolExecutor.
type ToolExecutorFunc func(ctx context.Context, name string, arguments map[string]any) (string, error)

// Execute implements ToolExecutor.
func (f ToolExecutorFunc) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	return f(ctx, name, arguments)
}
