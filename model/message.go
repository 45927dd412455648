package model

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one entry of a provider conversation.
//
// Content holds plain text for user and assistant turns. Protocol adapters keep
// their own structured payloads (tool invocation and tool result descriptors) in
// provider-specific form, so Turn is only used where the shape is shared.
type Turn struct {
	Role    Role
	Content string
}
