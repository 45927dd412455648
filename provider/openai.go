package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"ragai/model"
)

// OpenAIProtocol speaks the function-calling convention of the
// OpenAI-compatible chat-completions API. It serves OpenAI, Google Gemini and
// xAI Grok; only the endpoint and model differ.
//
// Tool calls arrive on the assistant message. The follow-up echoes that
// message and answers each call with its own tool-role message.
type OpenAIProtocol struct {
	api      ChatCompletionsAPI
	provider model.ProviderID
	model    string
	settings Settings
	logger   *zap.Logger
}

// NewOpenAIProtocol creates the function-calling protocol over a
// chat-completions transport.
func NewOpenAIProtocol(api ChatCompletionsAPI, provider model.ProviderID, modelName string, settings Settings, logger *zap.Logger) *OpenAIProtocol {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIProtocol{
		api:      api,
		provider: provider,
		model:    modelName,
		settings: settings,
		logger:   logger,
	}
}

// Prepare implements ToolProtocol.
func (p *OpenAIProtocol) Prepare(req model.GenerationRequest) Exchange {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, toOpenAIMessages(req.Turns)...)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(p.settings.Temperature),
	}

	if len(req.Tools) > 0 {
		params.Tools = ToOpenAITools(req.Tools)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		}
	}

	return &openaiExchange{protocol: p, params: params}
}

type openaiExchange struct {
	protocol *OpenAIProtocol
	params   openai.ChatCompletionNewParams
}

func (e *openaiExchange) Send(ctx context.Context) (*model.GenerationResponse, error) {
	p := e.protocol

	completion, err := p.api.New(ctx, e.params)
	if err != nil {
		return nil, Classify(p.provider, err, p.logger)
	}

	resp := &model.GenerationResponse{
		StopReason: model.StopNormal,
		Raw:        completion,
	}

	msg, ok := firstMessage(completion)
	if !ok {
		p.logger.Warn("chat completion has no choices", zap.String("provider", string(p.provider)))
		return resp, nil
	}

	resp.Text = msg.Content
	if len(msg.ToolCalls) > 0 {
		resp.StopReason = model.StopToolUse
	}

	p.logger.Debug("chat completion response",
		zap.String("provider", string(p.provider)),
		zap.Int("tool_calls", len(msg.ToolCalls)),
		zap.String("preview", preview(resp.Text)),
	)

	return resp, nil
}

func (e *openaiExchange) IsToolInvocation(resp *model.GenerationResponse) bool {
	return resp != nil && resp.StopReason == model.StopToolUse
}

func (e *openaiExchange) ExtractCalls(resp *model.GenerationResponse) []model.ToolCall {
	completion, _ := resp.Raw.(*openai.ChatCompletion)
	msg, ok := firstMessage(completion)
	if !ok {
		return nil
	}

	calls := make([]model.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		call := model.ToolCall{
			ID:           tc.ID,
			Name:         tc.Function.Name,
			RawArguments: tc.Function.Arguments,
		}
		call.Arguments, call.ParseErr = ParseToolArguments(tc.Function.Arguments)
		calls = append(calls, call)
	}

	return calls
}

func (e *openaiExchange) BuildFollowUp(resp *model.GenerationResponse, calls []model.ToolCall, results []model.ToolResult) error {
	completion, _ := resp.Raw.(*openai.ChatCompletion)
	msg, ok := firstMessage(completion)
	if !ok {
		return fmt.Errorf("%s follow-up: response has no message", e.protocol.provider)
	}

	paired, err := pairResults(calls, results)
	if err != nil {
		return fmt.Errorf("%s follow-up: %w", e.protocol.provider, err)
	}

	e.params.Messages = append(e.params.Messages, echoAssistantMessage(msg))
	for i, call := range calls {
		e.params.Messages = append(e.params.Messages, openai.ToolMessage(paired[i].Content, call.ID))
	}

	// The follow-up asks for a final answer only.
	e.params.Tools = nil
	e.params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{}

	return nil
}

func firstMessage(completion *openai.ChatCompletion) (openai.ChatCompletionMessage, bool) {
	if completion == nil || len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, false
	}
	return completion.Choices[0].Message, true
}

// toOpenAIMessages converts conversation turns to chat-completions messages.
func toOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))

	for _, turn := range turns {
		switch turn.Role {
		case model.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		}
	}

	return msgs
}

// echoAssistantMessage rebuilds the assistant message and its tool call
// descriptors as a request param.
func echoAssistantMessage(msg openai.ChatCompletionMessage) openai.ChatCompletionMessageParamUnion {
	assistant := openai.ChatCompletionAssistantMessageParam{}
	if msg.Content != "" {
		assistant.Content.OfString = openai.String(msg.Content)
	}

	for _, tc := range msg.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			},
		})
	}

	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}
