package testutil

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/require"

	"ragai/mcp"
	"ragai/model"
)

// CourseSearchSpec returns the search_course_content tool spec.
func CourseSearchSpec() model.ToolSpec {
	return mcp.CourseSearchTool()
}

// ToolUse describes one tool_use block or function tool call in a fixture.
type ToolUse struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// AnthropicText returns a final Anthropic message with one text block.
func AnthropicText(t testing.TB, text string) *anthropic.Message {
	t.Helper()
	return anthropicMessage(t, "end_turn", []map[string]any{
		{"type": "text", "text": text},
	})
}

// AnthropicToolUse returns an Anthropic message that stops for tool use.
// A non-empty text becomes a leading text block.
func AnthropicToolUse(t testing.TB, text string, uses ...ToolUse) *anthropic.Message {
	t.Helper()

	var blocks []map[string]any
	if text != "" {
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	}
	for _, u := range uses {
		blocks = append(blocks, map[string]any{
			"type":  "tool_use",
			"id":    u.ID,
			"name":  u.Name,
			"input": json.RawMessage(u.Arguments),
		})
	}
	return anthropicMessage(t, "tool_use", blocks)
}

// AnthropicEmpty returns an Anthropic message without content blocks.
func AnthropicEmpty(t testing.TB) *anthropic.Message {
	t.Helper()
	return anthropicMessage(t, "end_turn", []map[string]any{})
}

func anthropicMessage(t testing.TB, stopReason string, content []map[string]any) *anthropic.Message {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-20250514",
		"content":       content,
		"stop_reason":   stopReason,
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 10},
	})
	require.NoError(t, err)

	var msg anthropic.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return &msg
}

// ChatText returns a final chat completion with plain content.
func ChatText(t testing.TB, text string) *openai.ChatCompletion {
	t.Helper()
	return chatCompletion(t, "stop", map[string]any{
		"role":    "assistant",
		"content": text,
		"refusal": nil,
	})
}

// ChatToolCalls returns a chat completion whose message carries tool calls.
func ChatToolCalls(t testing.TB, uses ...ToolUse) *openai.ChatCompletion {
	t.Helper()

	calls := make([]map[string]any, 0, len(uses))
	for _, u := range uses {
		calls = append(calls, map[string]any{
			"id":   u.ID,
			"type": "function",
			"function": map[string]any{
				"name":      u.Name,
				"arguments": u.Arguments,
			},
		})
	}

	return chatCompletion(t, "tool_calls", map[string]any{
		"role":       "assistant",
		"content":    nil,
		"refusal":    nil,
		"tool_calls": calls,
	})
}

// ChatNoChoices returns a chat completion with an empty choices list.
func ChatNoChoices(t testing.TB) *openai.ChatCompletion {
	t.Helper()
	return decodeChat(t, map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []any{},
	})
}

func chatCompletion(t testing.TB, finishReason string, message map[string]any) *openai.ChatCompletion {
	t.Helper()
	return decodeChat(t, map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []any{
			map[string]any{
				"index":         0,
				"finish_reason": finishReason,
				"logprobs":      nil,
				"message":       message,
			},
		},
	})
}

func decodeChat(t testing.TB, body map[string]any) *openai.ChatCompletion {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	var completion openai.ChatCompletion
	require.NoError(t, json.Unmarshal(raw, &completion))
	return &completion
}

// ToolResultText is the text of a search_course_content result in fixtures.
func ToolResultText(query string) string {
	return fmt.Sprintf("[MCP Course - Lesson 1]\nContent about %s", query)
}
