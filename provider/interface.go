// Package provider talks to LLM providers on behalf of the generator.
//
// ragai supports four providers behind two tool-calling conventions:
//   - Anthropic, through its Messages API and native tool use
//   - OpenAI, Google Gemini and xAI Grok, through the OpenAI-compatible
//     chat-completions API and function calling
//
// # Architecture
//
//   - Select picks one provider from the configured credentials
//   - New builds the ToolProtocol for that provider's convention
//   - ToolProtocol.Prepare turns a model.GenerationRequest into an Exchange
//   - Exchange drives the request/response pairs of a single query
//   - Classify maps transport failures to *APIError
//
// # Usage
//
//	route, err := provider.Select(cfg.Credentials, cfg.Providers, logger)
//	if err != nil {
//	    // handle ErrConfiguration
//	}
//	proto, err := provider.New(route, settings, logger)
//	ex := proto.Prepare(req)
//	resp, err := ex.Send(ctx)
package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"

	"ragai/model"
)

// ToolProtocol adapts the provider-agnostic request to one calling convention.
// Implementations are immutable and safe for concurrent use.
type ToolProtocol interface {
	Prepare(req model.GenerationRequest) Exchange
}

// Exchange is the request-scoped conversation with one provider.
//
// An Exchange is not safe for concurrent use; each query gets its own.
type Exchange interface {
	// Send issues the current request. Transport failures come back as *APIError.
	Send(ctx context.Context) (*model.GenerationResponse, error)

	// IsToolInvocation reports whether resp asks for tools to be run.
	IsToolInvocation(resp *model.GenerationResponse) bool

	// ExtractCalls returns the tool calls of resp in provider order.
	ExtractCalls(resp *model.GenerationResponse) []model.ToolCall

	// BuildFollowUp appends the assistant turn from resp and the tool results
	// to the conversation and removes the tool definitions, so the next Send
	// asks for a final answer. Every call must have a result.
	BuildFollowUp(resp *model.GenerationResponse, calls []model.ToolCall, results []model.ToolResult) error
}

// MessagesAPI is the Anthropic Messages transport. *anthropic.MessageService
// satisfies it.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...anthropicoption.RequestOption) (*anthropic.Message, error)
}

// ChatCompletionsAPI is the OpenAI-compatible chat-completions transport.
// *openai.ChatCompletionService satisfies it.
type ChatCompletionsAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...openaioption.RequestOption) (*openai.ChatCompletion, error)
}

// Settings are the sampling parameters applied to every request.
type Settings struct {
	Temperature float64

	// MaxTokens caps Anthropic responses, where the field is required. The
	// OpenAI-compatible endpoints are left at their own default.
	MaxTokens int64
}

// previewLen caps response text in debug logs.
const previewLen = 100

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
