package provider

import (
	"encoding/json"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragai/model"
	"ragai/provider/testutil"
)

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestToOpenAITools(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.ToolSpec
		expected int
		validate func(t *testing.T, tool map[string]any)
	}{
		{
			name:     "empty tools",
			input:    []model.ToolSpec{},
			expected: 0,
		},
		{
			name:     "course search tool",
			input:    []model.ToolSpec{testutil.CourseSearchSpec()},
			expected: 1,
			validate: func(t *testing.T, tool map[string]any) {
				assert.Equal(t, "function", tool["type"])

				fn := tool["function"].(map[string]any)
				assert.Equal(t, "search_course_content", fn["name"])
				assert.NotEmpty(t, fn["description"])

				params := fn["parameters"].(map[string]any)
				assert.Equal(t, "object", params["type"])
				assert.Equal(t, []any{"query"}, params["required"])

				props := params["properties"].(map[string]any)
				assert.Contains(t, props, "query")
				assert.Contains(t, props, "course_name")
				assert.Contains(t, props, "lesson_number")
			},
		},
		{
			name: "tool with defs and no description",
			input: []model.ToolSpec{
				{
					Name: "lookup",
					InputSchema: mcptypes.ToolInputSchema{
						Defs:       map[string]any{"id": map[string]any{"type": "string"}},
						Properties: map[string]any{"id": map[string]any{"$ref": "#/$defs/id"}},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, tool map[string]any) {
				fn := tool["function"].(map[string]any)
				assert.NotContains(t, fn, "description")

				params := fn["parameters"].(map[string]any)
				assert.Equal(t, "object", params["type"], "missing schema type defaults to object")
				assert.Contains(t, params, "$defs")
				assert.NotContains(t, params, "required")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToOpenAITools(tt.input)
			require.Len(t, result, tt.expected)
			if tt.validate != nil {
				tt.validate(t, marshalMap(t, result[0]))
			}
		})
	}
}

func TestToAnthropicTools(t *testing.T) {
	assert.Nil(t, ToAnthropicTools(nil))

	result := ToAnthropicTools([]model.ToolSpec{testutil.CourseSearchSpec()})
	require.Len(t, result, 1)
	require.NotNil(t, result[0].OfTool)

	tool := marshalMap(t, result[0])
	assert.Equal(t, "search_course_content", tool["name"])
	assert.NotEmpty(t, tool["description"])

	schema := tool["input_schema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"query"}, schema["required"])
	assert.Contains(t, schema["properties"], "lesson_number")
}

func TestParseToolArguments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{name: "object", input: `{"query":"MCP","lesson_number":2}`, want: map[string]any{"query": "MCP", "lesson_number": float64(2)}},
		{name: "empty string", input: "", want: map[string]any{}},
		{name: "whitespace", input: "  ", want: map[string]any{}},
		{name: "empty object", input: "{}", want: map[string]any{}},
		{name: "truncated", input: `{"query":`, wantErr: true},
		{name: "array", input: `[1,2]`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToolArguments(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPairResults(t *testing.T) {
	calls := []model.ToolCall{{ID: "a", Name: "x"}, {ID: "b", Name: "y"}}

	paired, err := pairResults(calls, []model.ToolResult{{CallID: "b", Content: "2"}, {CallID: "a", Content: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "1", paired[0].Content)
	assert.Equal(t, "2", paired[1].Content)

	_, err = pairResults(calls, []model.ToolResult{{CallID: "a"}})
	assert.ErrorContains(t, err, "got 1 results for 2 tool calls")

	_, err = pairResults(calls, []model.ToolResult{{CallID: "a"}, {CallID: "c"}})
	assert.ErrorContains(t, err, "no result for tool call b")

	sameID := []model.ToolCall{{ID: "", Name: "x"}, {ID: "", Name: "y"}}
	paired, err = pairResults(sameID, []model.ToolResult{{Content: "1"}, {Content: "2"}})
	require.NoError(t, err)
	assert.Equal(t, "1", paired[0].Content)
	assert.Equal(t, "2", paired[1].Content)

	_, err = pairResults(
		[]model.ToolCall{{ID: "a"}, {ID: "a"}, {ID: "b"}},
		[]model.ToolResult{{CallID: "b"}, {CallID: "a"}, {CallID: "a"}},
	)
	assert.ErrorContains(t, err, `duplicate result for tool call "a"`)
}
