package provider

import (
	"context"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragai/model"
	"ragai/provider/testutil"
)

func newOpenAITestProtocol(api ChatCompletionsAPI) *OpenAIProtocol {
	return NewOpenAIProtocol(api, model.ProviderOpenAI, "gpt-test", Settings{Temperature: 0, MaxTokens: 800}, nil)
}

func TestOpenAIPrepare(t *testing.T) {
	fake := testutil.NewFakeChatCompletions(testutil.ChatText(t, "hi"))

	_, err := newOpenAITestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec())).Send(context.Background())
	require.NoError(t, err)

	params := fake.Requests()[0]
	assert.Equal(t, openai.ChatModel("gpt-test"), params.Model)
	assert.False(t, params.MaxCompletionTokens.Valid(), "only Anthropic gets a token cap")
	assert.False(t, params.MaxTokens.Valid())
	assert.Equal(t, 0.0, params.Temperature.Value)

	require.Len(t, params.Messages, 2)
	require.NotNil(t, params.Messages[0].OfSystem)
	assert.Equal(t, "system instruction", params.Messages[0].OfSystem.Content.OfString.Value)
	require.NotNil(t, params.Messages[1].OfUser)
	assert.Equal(t, "What is MCP?", params.Messages[1].OfUser.Content.OfString.Value)

	require.Len(t, params.Tools, 1)
	require.NotNil(t, params.Tools[0].OfFunction)
	assert.Equal(t, "search_course_content", params.Tools[0].OfFunction.Function.Name)
	assert.Equal(t, "auto", params.ToolChoice.OfAuto.Value)
}

func TestOpenAISend_Text(t *testing.T) {
	fake := testutil.NewFakeChatCompletions(testutil.ChatText(t, "Answer."))
	ex := newOpenAITestProtocol(fake).Prepare(courseRequest())

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Answer.", resp.Text)
	assert.False(t, ex.IsToolInvocation(resp))
	assert.Empty(t, ex.ExtractCalls(resp))

	params := fake.Requests()[0]
	assert.Empty(t, params.Tools)
	assert.False(t, params.ToolChoice.OfAuto.Valid())
}

func TestOpenAISend_NoChoices(t *testing.T) {
	fake := testutil.NewFakeChatCompletions(testutil.ChatNoChoices(t))
	ex := newOpenAITestProtocol(fake).Prepare(courseRequest())

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", resp.Text)
	assert.False(t, ex.IsToolInvocation(resp))
	assert.Error(t, ex.BuildFollowUp(resp, nil, nil))
}

func TestOpenAISend_TransportError(t *testing.T) {
	fake := testutil.NewFakeChatCompletions().FailAt(0, testutil.OpenAIStatusError(401, `{"error":{"message":"bad key"}}`))
	proto := NewOpenAIProtocol(fake, model.ProviderXAI, "grok-test", Settings{}, nil)

	_, err := proto.Prepare(courseRequest()).Send(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.ProviderXAI, apiErr.Provider)
}

func TestOpenAIExtractCalls_MalformedArguments(t *testing.T) {
	fake := testutil.NewFakeChatCompletions(testutil.ChatToolCalls(t,
		testutil.ToolUse{ID: "call_1", Name: "search_course_content", Arguments: `{"query":"MCP"}`},
		testutil.ToolUse{ID: "call_2", Name: "search_course_content", Arguments: `{"query":`},
	))
	ex := newOpenAITestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec()))

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)
	require.True(t, ex.IsToolInvocation(resp))

	calls := ex.ExtractCalls(resp)
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].ParseErr)
	assert.Equal(t, map[string]any{"query": "MCP"}, calls[0].Arguments)

	assert.Error(t, calls[1].ParseErr, "a malformed payload fails only its own call")
	assert.Equal(t, `{"query":`, calls[1].RawArguments)
}

func TestOpenAIBuildFollowUp(t *testing.T) {
	fake := testutil.NewFakeChatCompletions(
		testutil.ChatToolCalls(t,
			testutil.ToolUse{ID: "call_1", Name: "search_course_content", Arguments: `{"query":"MCP"}`},
			testutil.ToolUse{ID: "call_2", Name: "search_course_content", Arguments: `{"query":"RAG"}`},
		),
		testutil.ChatText(t, "final"),
	)
	ex := newOpenAITestProtocol(fake).Prepare(courseRequest(testutil.CourseSearchSpec()))

	resp, err := ex.Send(context.Background())
	require.NoError(t, err)
	calls := ex.ExtractCalls(resp)

	results := []model.ToolResult{
		{CallID: "call_1", Content: "MCP content"},
		{CallID: "call_2", Content: "Error executing tool: index offline", IsError: true},
	}
	require.NoError(t, ex.BuildFollowUp(resp, calls, results))

	final, err := ex.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "final", final.Text)

	params := fake.Requests()[1]
	assert.Empty(t, params.Tools, "follow-up carries no tools")
	assert.False(t, params.ToolChoice.OfAuto.Valid())

	// system, user, assistant echo, one tool message per call
	require.Len(t, params.Messages, 5)

	assistant := params.Messages[2].OfAssistant
	require.NotNil(t, assistant)
	require.Len(t, assistant.ToolCalls, 2)
	assert.Equal(t, "call_1", assistant.ToolCalls[0].OfFunction.ID)
	assert.Equal(t, "search_course_content", assistant.ToolCalls[0].OfFunction.Function.Name)
	assert.Equal(t, `{"query":"MCP"}`, assistant.ToolCalls[0].OfFunction.Function.Arguments)
	assert.Equal(t, "call_2", assistant.ToolCalls[1].OfFunction.ID)

	tool1 := params.Messages[3].OfTool
	require.NotNil(t, tool1)
	assert.Equal(t, "call_1", tool1.ToolCallID)
	assert.Equal(t, "MCP content", tool1.Content.OfString.Value)

	tool2 := params.Messages[4].OfTool
	require.NotNil(t, tool2)
	assert.Equal(t, "call_2", tool2.ToolCallID)
	assert.Equal(t, "Error executing tool: index offline", tool2.Content.OfString.Value)
}
