package generator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ragai/model"
	"ragai/prompt"
	"ragai/provider"
)

// toolErrorPrefix starts the result text of a tool call that failed.
const toolErrorPrefix = "Error executing tool: "

// Generate answers query, optionally after one round of tool calls.
//
// history is prior conversation text appended to the system instruction.
// Tools are offered only when both tools and executor are given. At most two
// provider requests are made: the initial one and, if the model asked for
// tools, one follow-up carrying their results. The follow-up answer is
// returned as is.
//
// Provider failures come back as *provider.APIError. A failing tool call does
// not fail the query; its error text is sent to the model instead.
func (g *Generator) Generate(ctx context.Context, query, history string, tools []model.ToolSpec, executor model.ToolExecutor) (string, error) {
	logger := g.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("provider", string(g.selection.Provider)),
	)

	req := model.GenerationRequest{
		Selection: g.selection,
		System:    prompt.Assemble(g.instruction, history),
		Turns:     []model.Turn{{Role: model.RoleUser, Content: query}},
	}
	if len(tools) > 0 && executor != nil {
		req.Tools = tools
	}

	logger.Debug("generating",
		zap.String("model", g.selection.Model),
		zap.Int("tools", len(req.Tools)),
		zap.Bool("history", history != ""),
	)

	ex := g.protocol.Prepare(req)

	resp, err := ex.Send(ctx)
	if err != nil {
		logger.Warn("initial request failed", zap.Error(err))
		return "", err
	}

	if !ex.IsToolInvocation(resp) || executor == nil {
		return resp.Text, nil
	}

	calls := ex.ExtractCalls(resp)
	if len(calls) == 0 {
		return resp.Text, nil
	}

	results := runTools(ctx, logger, executor, calls)

	if err := ex.BuildFollowUp(resp, calls, results); err != nil {
		logger.Error("failed to build follow-up", zap.Error(err))
		return "", provider.ExecutionError(g.selection.Provider, err)
	}

	final, err := ex.Send(ctx)
	if err != nil {
		logger.Warn("follow-up request failed", zap.Error(err))
		return "", err
	}

	return final.Text, nil
}

// runTools executes calls one at a time, in order, and returns exactly one
// result per call.
func runTools(ctx context.Context, logger *zap.Logger, executor model.ToolExecutor, calls []model.ToolCall) []model.ToolResult {
	results := make([]model.ToolResult, 0, len(calls))

	for _, call := range calls {
		if call.ParseErr != nil {
			logger.Warn("tool arguments rejected",
				zap.String("tool", call.Name),
				zap.String("call_id", call.ID),
				zap.Error(call.ParseErr),
			)
			results = append(results, errorResult(call, call.ParseErr))
			continue
		}

		out, err := executor.Execute(ctx, call.Name, call.Arguments)
		if err != nil {
			logger.Warn("tool failed",
				zap.String("tool", call.Name),
				zap.String("call_id", call.ID),
				zap.Error(err),
			)
			results = append(results, errorResult(call, err))
			continue
		}

		logger.Debug("tool succeeded",
			zap.String("tool", call.Name),
			zap.String("call_id", call.ID),
			zap.Int("bytes", len(out)),
		)
		results = append(results, model.ToolResult{CallID: call.ID, Content: out})
	}

	return results
}

func errorResult(call model.ToolCall, err error) model.ToolResult {
	return model.ToolResult{
		CallID:  call.ID,
		Content: toolErrorPrefix + err.Error(),
		IsError: true,
	}
}
