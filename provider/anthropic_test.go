package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragai/model"
	"ragai/provider/testutil"
)

func newAnthropicTestProtocol(api MessagesAPI) *AnthropicProtocol {
	return NewAnthropicProtocol(api, "claude-test", Settings{Temperature: 0, MaxTokens: 800}, nil)
}

func courseRequest(tools ...model.ToolSpec) model.GenerationRequest {
	return model.GenerationRequest{
		System: "system instruction",
		Turns:  []model.Turn{{Role: model.RoleUser, Content: "What is MCP?"}},
		Tools:  tools,
	}
}

func TestAnthropicPrepare(t *testing.T) {
	fake := testutil.NewFakeMessages(testutil.AnthropicText(t, "hi"))
	proto := newAnthropicTestProtocol(fake)

	_, err := proto.Prepare(courseRequest(testutil.CourseSearchSpec())).Send(context.Background())
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	params := reqs[0]

	assert.Equal(t, anthropic.Model("claude-test"), params.Model)
	assert.Equal(t, int64(800), params.MaxTokens)
	assert.Equal(t, 0.0, params.Temperature.Value)
	require.Len(t, params.System, 1)
	assert.Equal(t, "system instruction", params.System[0].Text)

	require.Len(t, params.Messages, 1)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[0].Role)
	assert.Equal(t, "What is MCP?", params.Messages[0].Content[0].OfText.Text)

	require.Len(t, params.Tools, 1)
	assert.Equal(t, "search_course_content", params.Tools[0].OfTool.Name)
	assert.NotNil(t, params.ToolChoice.OfAuto)
}

func TestAnthropicPrepare_NoTools(t *testing.T) {
	fake := testutil.NewFakeMessages(testutil.AnthropicText(t, "hi"))

	_, err := newAnthropicTestProtocol(fake).Prepare(courseRequest()).Send(context.Background())
	require.NoError(t, err)

	params := fake.Requests()[0]
	assert.Empty(t, params.Tools)
	assert.Nil(t, params.ToolChoice.OfAuto)
}

func TestAnthropicSend_Text(t *testing.T) {
	fake := testutil.NewFakeMessages(testutil.AnthropicText(t, "MCP is a protocol."))
	ex := newAnthropicTestProtocol(fake).Prepare(courseRequest())

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "MCP is a protocol.", resp.Text)
	assert.Equal(t, model.StopNormal, resp.StopReason)
	assert.False(t, ex.IsToolInvocation(resp))
	assert.Empty(t, ex.ExtractCalls(resp))
}

func TestAnthropicSend_EmptyContent(t *testing.T) {
	fake := testutil.NewFakeMessages(testutil.AnthropicEmpty(t))

	_, err := newAnthropicTestProtocol(fake).Prepare(courseRequest()).Send(context.Background())
	require.ErrorIs(t, err, ErrEmptyResponse)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "empty content is not a provider failure")
}

func TestAnthropicSend_TransportError(t *testing.T) {
	fake := testutil.NewFakeMessages().FailAt(0, testutil.AnthropicStatusError(429, `{"type":"error"}`))

	_, err := newAnthropicTestProtocol(fake).Prepare(courseRequest()).Send(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.ProviderAnthropic, apiErr.Provider)
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestAnthropicExtractCalls(t *testing.T) {
	msg := testutil.AnthropicToolUse(t, "Let me search.",
		testutil.ToolUse{ID: "toolu_1", Name: "search_course_content", Arguments: `{"query":"MCP"}`},
		testutil.ToolUse{ID: "toolu_2", Name: "search_course_content", Arguments: `{"query":"RAG","lesson_number":3}`},
	)
	fake := testutil.NewFakeMessages(msg)
	ex := newAnthropicTestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec()))

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)
	require.True(t, ex.IsToolInvocation(resp))
	assert.Equal(t, "Let me search.", resp.Text)

	calls := ex.ExtractCalls(resp)
	require.Len(t, calls, 2)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.Equal(t, map[string]any{"query": "MCP"}, calls[0].Arguments)
	assert.Equal(t, "toolu_2", calls[1].ID)
	assert.Equal(t, map[string]any{"query": "RAG", "lesson_number": float64(3)}, calls[1].Arguments)
	assert.NoError(t, calls[1].ParseErr)
}

func TestAnthropicBuildFollowUp(t *testing.T) {
	first := testutil.AnthropicToolUse(t, "Searching.",
		testutil.ToolUse{ID: "toolu_1", Name: "search_course_content", Arguments: `{"query":"MCP"}`},
		testutil.ToolUse{ID: "toolu_2", Name: "search_course_content", Arguments: `{"query":"RAG"}`},
	)
	fake := testutil.NewFakeMessages(first, testutil.AnthropicText(t, "final"))
	ex := newAnthropicTestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec()))

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)
	calls := ex.ExtractCalls(resp)

	results := []model.ToolResult{
		{CallID: "toolu_2", Content: "Error executing tool: boom", IsError: true},
		{CallID: "toolu_1", Content: "MCP content"},
	}
	require.NoError(t, ex.BuildFollowUp(resp, calls, results))

	final, err := ex.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "final", final.Text)

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	params := reqs[1]

	assert.Empty(t, params.Tools, "follow-up carries no tools")
	assert.Nil(t, params.ToolChoice.OfAuto)
	require.Len(t, params.Messages, 3)

	assistant := params.Messages[1]
	assert.Equal(t, anthropic.MessageParamRoleAssistant, assistant.Role)
	require.Len(t, assistant.Content, 3, "text and both tool_use blocks are echoed")
	assert.Equal(t, "Searching.", assistant.Content[0].OfText.Text)
	assert.Equal(t, "toolu_1", assistant.Content[1].OfToolUse.ID)
	assert.Equal(t, "search_course_content", assistant.Content[1].OfToolUse.Name)
	input, err := json.Marshal(assistant.Content[1].OfToolUse.Input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"MCP"}`, string(input))
	assert.Equal(t, "toolu_2", assistant.Content[2].OfToolUse.ID)

	user := params.Messages[2]
	assert.Equal(t, anthropic.MessageParamRoleUser, user.Role)
	require.Len(t, user.Content, 2, "all results travel in one user message")

	r1 := user.Content[0].OfToolResult
	require.NotNil(t, r1)
	assert.Equal(t, "toolu_1", r1.ToolUseID)
	assert.Equal(t, "MCP content", r1.Content[0].OfText.Text)
	assert.False(t, r1.IsError.Value)

	r2 := user.Content[1].OfToolResult
	require.NotNil(t, r2)
	assert.Equal(t, "toolu_2", r2.ToolUseID)
	assert.True(t, r2.IsError.Value)
}

func TestAnthropicBuildFollowUp_MissingResult(t *testing.T) {
	first := testutil.AnthropicToolUse(t, "",
		testutil.ToolUse{ID: "toolu_1", Name: "search_course_content", Arguments: `{"query":"MCP"}`},
	)
	fake := testutil.NewFakeMessages(first)
	ex := newAnthropicTestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec()))

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)

	err = ex.BuildFollowUp(resp, ex.ExtractCalls(resp), nil)
	assert.ErrorContains(t, err, "got 0 results for 1 tool calls")
}

func TestAnthropicBuildFollowUp_ForeignPayload(t *testing.T) {
	ex := newAnthropicTestProtocol(testutil.NewFakeMessages()).Prepare(courseRequest())

	err := ex.BuildFollowUp(&model.GenerationResponse{Raw: "not a message"}, nil, nil)
	assert.Error(t, err)
}
