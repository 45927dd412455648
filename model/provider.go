package model

// ProviderID names an LLM provider.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGoogle    ProviderID = "google"
	ProviderXAI       ProviderID = "xai"
)

// Convention is the tool-calling protocol a provider speaks.
type Convention string

const (
	// ConventionNative is Anthropic-style tool use: tool_use content blocks in,
	// one batched tool_result user message out.
	ConventionNative Convention = "native"

	// ConventionFunctionCalling is the OpenAI chat-completions convention: tool
	// calls on the assistant message, one tool-role message per call.
	ConventionFunctionCalling Convention = "function-calling"
)

// Selection is the provider chosen at construction time. It never changes
// afterwards and may be shared by concurrent queries.
type Selection struct {
	Provider   ProviderID
	Model      string
	Convention Convention
}

// StopReason says why the provider ended a response.
type StopReason string

const (
	StopNormal  StopReason = "normal"
	StopToolUse StopReason = "tool_use"
)

// GenerationRequest is the provider-agnostic input of one query.
type GenerationRequest struct {
	Selection Selection
	System    string
	Turns     []Turn
	Tools     []ToolSpec
}

// GenerationResponse is one provider reply.
type GenerationResponse struct {
	Text       string
	StopReason StopReason

	// Raw is the provider's own response value (*anthropic.Message or
	// *openai.ChatCompletion). Only the adapter that produced it reads it.
	Raw any
}
