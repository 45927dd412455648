package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ragai/model"
)

// Executor runs tools on one connected MCP server.
type Executor struct {
	client *client.Client
	tools  []mcptypes.Tool
}

var _ model.ToolExecutor = (*Executor)(nil)

// NewInProcessExecutor connects to srv without any transport in between.
func NewInProcessExecutor(ctx context.Context, srv *server.MCPServer) (*Executor, error) {
	mcpClient, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process client: %w", err)
	}

	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start in-process client: %w", err)
	}

	tools, err := connect(ctx, mcpClient)
	if err != nil {
		mcpClient.Close()
		return nil, err
	}

	return &Executor{client: mcpClient, tools: tools}, nil
}

// Tools returns the tools the server listed at connect time.
func (e *Executor) Tools() []model.ToolSpec {
	return e.tools
}

func (e *Executor) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	return callTool(ctx, e.client, name, arguments)
}

func (e *Executor) Close() error {
	return e.client.Close()
}

// connect runs the initialize handshake and lists the server's tools.
func connect(ctx context.Context, mcpClient *client.Client) ([]mcptypes.Tool, error) {
	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: mcptypes.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    ClientName,
				Version: ClientVersion,
			},
		},
	}

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	toolsResult, err := mcpClient.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	return toolsResult.Tools, nil
}

func callTool(ctx context.Context, mcpClient *client.Client, name string, arguments map[string]any) (string, error) {
	result, err := mcpClient.CallTool(ctx, mcptypes.CallToolRequest{
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

// resultText flattens the text content of a tool result. Non-text content is
// dropped. An IsError result becomes an error carrying the same text.
func resultText(name string, result *mcptypes.CallToolResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("tool %s returned no result", name)
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := mcptypes.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if result.IsError {
		switch {
		case text == "":
			return "", fmt.Errorf("tool %s failed", name)
		}
		return "", errors.New(text)
	}

	return text, nil
}
