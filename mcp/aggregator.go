package mcp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ragai/model"
)

// ToolAggregator merges the tools of all running servers into one executor.
// Tool names are offered as-is; when two servers list the same name the server
// started first wins.
type ToolAggregator struct {
	manager *Manager
}

var _ model.ToolExecutor = (*ToolAggregator)(nil)

func NewToolAggregator(manager *Manager) *ToolAggregator {
	return &ToolAggregator{
		manager: manager,
	}
}

func (ta *ToolAggregator) Tools() []model.ToolSpec {
	var allTools []model.ToolSpec
	seen := make(map[string]string)

	for _, proc := range ta.manager.snapshot() {
		for _, tool := range proc.Tools {
			if owner, dup := seen[tool.Name]; dup {
				ta.manager.logger.Warn("duplicate mcp tool skipped",
					zap.String("tool", tool.Name),
					zap.String("server", proc.ID),
					zap.String("owner", owner),
				)
				continue
			}
			seen[tool.Name] = proc.ID
			allTools = append(allTools, tool)
		}
	}

	return allTools
}

func (ta *ToolAggregator) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	proc := ta.owner(name)
	if proc == nil {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return callTool(ctx, proc.Client, name, arguments)
}

func (ta *ToolAggregator) owner(name string) *ServerProcess {
	for _, proc := range ta.manager.snapshot() {
		for _, tool := range proc.Tools {
			if tool.Name == name {
				return proc
			}
		}
	}
	return nil
}
