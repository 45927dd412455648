package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"ragai/model"
)

// AnthropicProtocol speaks Anthropic's native tool-use convention.
//
// Tool calls arrive as tool_use content blocks with stop_reason "tool_use".
// The follow-up echoes the whole assistant content and answers every call in
// a single user message of tool_result blocks.
type AnthropicProtocol struct {
	api      MessagesAPI
	model    anthropic.Model
	settings Settings
	logger   *zap.Logger
}

// NewAnthropicProtocol creates the native protocol over an Anthropic transport.
func NewAnthropicProtocol(api MessagesAPI, modelName string, settings Settings, logger *zap.Logger) *AnthropicProtocol {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicProtocol{
		api:      api,
		model:    anthropic.Model(modelName),
		settings: settings,
		logger:   logger,
	}
}

// Prepare implements ToolProtocol.
func (p *AnthropicProtocol) Prepare(req model.GenerationRequest) Exchange {
	params := anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    toAnthropicMessages(req.Turns),
		MaxTokens:   p.settings.MaxTokens,
		Temperature: anthropic.Float(p.settings.Temperature),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if len(req.Tools) > 0 {
		params.Tools = ToAnthropicTools(req.Tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}
	}

	return &anthropicExchange{protocol: p, params: params}
}

type anthropicExchange struct {
	protocol *AnthropicProtocol
	params   anthropic.MessageNewParams
}

func (e *anthropicExchange) Send(ctx context.Context) (*model.GenerationResponse, error) {
	p := e.protocol

	msg, err := p.api.New(ctx, e.params)
	if err != nil {
		return nil, Classify(model.ProviderAnthropic, err, p.logger)
	}
	if msg == nil || len(msg.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	resp := &model.GenerationResponse{
		Text:       joinAnthropicText(msg.Content),
		StopReason: model.StopNormal,
		Raw:        msg,
	}
	if msg.StopReason == anthropic.StopReasonToolUse {
		resp.StopReason = model.StopToolUse
	}

	p.logger.Debug("anthropic response",
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int("blocks", len(msg.Content)),
		zap.String("preview", preview(resp.Text)),
	)

	return resp, nil
}

func (e *anthropicExchange) IsToolInvocation(resp *model.GenerationResponse) bool {
	return resp != nil && resp.StopReason == model.StopToolUse
}

func (e *anthropicExchange) ExtractCalls(resp *model.GenerationResponse) []model.ToolCall {
	msg, ok := resp.Raw.(*anthropic.Message)
	if !ok {
		return nil
	}

	var calls []model.ToolCall
	for _, block := range msg.Content {
		if block.Type != "tool_use" {
			continue
		}

		call := model.ToolCall{
			ID:           block.ID,
			Name:         block.Name,
			RawArguments: string(block.Input),
		}
		call.Arguments, call.ParseErr = ParseToolArguments(string(block.Input))
		calls = append(calls, call)
	}

	return calls
}

func (e *anthropicExchange) BuildFollowUp(resp *model.GenerationResponse, calls []model.ToolCall, results []model.ToolResult) error {
	msg, ok := resp.Raw.(*anthropic.Message)
	if !ok {
		return fmt.Errorf("anthropic follow-up: unexpected response payload %T", resp.Raw)
	}

	paired, err := pairResults(calls, results)
	if err != nil {
		return fmt.Errorf("anthropic follow-up: %w", err)
	}

	resultBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(calls))
	for i, call := range calls {
		r := paired[i]
		resultBlocks = append(resultBlocks, anthropic.NewToolResultBlock(call.ID, r.Content, r.IsError))
	}

	e.params.Messages = append(e.params.Messages,
		anthropic.NewAssistantMessage(echoAnthropicContent(msg.Content)...),
		anthropic.NewUserMessage(resultBlocks...),
	)

	// The follow-up asks for a final answer only.
	e.params.Tools = nil
	e.params.ToolChoice = anthropic.ToolChoiceUnionParam{}

	return nil
}

// toAnthropicMessages converts conversation turns to Anthropic messages.
// Tool turns are sent as user text; structured results go through BuildFollowUp.
func toAnthropicMessages(turns []model.Turn) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(turns))

	for _, turn := range turns {
		switch turn.Role {
		case model.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}

	return msgs
}

// echoAnthropicContent rebuilds response content as request params.
func echoAnthropicContent(content []anthropic.ContentBlockUnion) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content))

	for _, block := range content {
		switch block.Type {
		case "text":
			blocks = append(blocks, anthropic.NewTextBlock(block.Text))
		case "tool_use":
			input := block.Input
			if len(input) == 0 {
				input = json.RawMessage("{}")
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(block.ID, input, block.Name))
		case "thinking":
			blocks = append(blocks, anthropic.NewThinkingBlock(block.Signature, block.Thinking))
		case "redacted_thinking":
			blocks = append(blocks, anthropic.NewRedactedThinkingBlock(block.Data))
		default:
			blocks = append(blocks, block.ToParam())
		}
	}

	return blocks
}

func joinAnthropicText(content []anthropic.ContentBlockUnion) string {
	var sb strings.Builder
	for _, block := range content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
