package mcp

import (
	"context"
	"fmt"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ragai/model"
)

// Registry holds tools that run in this process. It executes them directly
// and can also publish them as an MCP server.
type Registry struct {
	mu       sync.RWMutex
	tools    []mcptypes.Tool
	handlers map[string]server.ToolHandlerFunc
}

var _ model.ToolExecutor = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]server.ToolHandlerFunc),
	}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(tool mcptypes.Tool, handler server.ToolHandlerFunc) error {
	switch {
	case tool.Name == "":
		return fmt.Errorf("tool name is required")
	case handler == nil:
		return fmt.Errorf("tool %s: handler is required", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.tools = append(r.tools, tool)
	r.handlers[tool.Name] = handler
	return nil
}

// Specs returns the registered tools in registration order.
func (r *Registry) Specs() []model.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]model.ToolSpec, len(r.tools))
	copy(specs, r.tools)
	return specs
}

func (r *Registry) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	result, err := handler(ctx, mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      name,
			Arguments: arguments,
		},
	})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	return resultText(name, result)
}

// Server publishes the registered tools as an MCP server.
func (r *Registry) Server(name, version string) *server.MCPServer {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(true))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tool := range r.tools {
		srv.AddTool(tool, r.handlers[tool.Name])
	}
	return srv
}
