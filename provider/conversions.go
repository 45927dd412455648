package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"

	"ragai/model"
)

// ToAnthropicTools converts tool specs to Anthropic format.
//
// ToolSpec and Anthropic tools share the {name, description, input_schema}
// shape, so this is a field-for-field copy.
func ToAnthropicTools(specs []model.ToolSpec) []anthropic.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(specs))

	for i, spec := range specs {
		// Type defaults to "object" when omitted
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: spec.InputSchema.Properties,
		}

		if len(spec.InputSchema.Required) > 0 {
			inputSchema.Required = spec.InputSchema.Required
		}

		if spec.InputSchema.Defs != nil {
			inputSchema.ExtraFields = map[string]any{
				"$defs": spec.InputSchema.Defs,
			}
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, spec.Name)

		if spec.Description != "" {
			result[i].OfTool.Description = anthropic.String(spec.Description)
		}
	}

	return result
}

// ToOpenAITools converts tool specs to the function-calling format.
//
// Tool spec:
//
//	{
//	  "name": "search_course_content",
//	  "description": "Search course materials",
//	  "input_schema": {...}
//	}
//
// Function tool:
//
//	{
//	  "type": "function",
//	  "function": {
//	    "name": "search_course_content",
//	    "description": "Search course materials",
//	    "parameters": {...}
//	  }
//	}
func ToOpenAITools(specs []model.ToolSpec) []openai.ChatCompletionToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(specs))

	for i, spec := range specs {
		schemaType := spec.InputSchema.Type
		if schemaType == "" {
			schemaType = "object"
		}

		params := openai.FunctionParameters{
			"type":       schemaType,
			"properties": spec.InputSchema.Properties,
		}

		if len(spec.InputSchema.Required) > 0 {
			params["required"] = spec.InputSchema.Required
		}

		if spec.InputSchema.Defs != nil {
			params["$defs"] = spec.InputSchema.Defs
		}

		fn := openai.FunctionDefinitionParam{
			Name:       spec.Name,
			Parameters: params,
		}
		if spec.Description != "" {
			fn.Description = openai.String(spec.Description)
		}

		result[i] = openai.ChatCompletionFunctionTool(fn)
	}

	return result
}

// ParseToolArguments parses a JSON argument payload into a map.
//
// An empty payload is an empty argument set. Anything that is not a JSON
// object is an error.
func ParseToolArguments(argsJSON string) (map[string]any, error) {
	if strings.TrimSpace(argsJSON) == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	if args == nil {
		return nil, fmt.Errorf("invalid tool arguments: expected a JSON object, got %s", argsJSON)
	}
	return args, nil
}

// pairResults returns one result per call, in call order.
//
// Results already in call order are paired by position, so calls sharing an
// id (often "" on OpenAI-compatible endpoints) each keep their own result.
// Otherwise results are matched by id, which requires unique ids.
func pairResults(calls []model.ToolCall, results []model.ToolResult) ([]model.ToolResult, error) {
	if len(results) != len(calls) {
		return nil, fmt.Errorf("got %d results for %d tool calls", len(results), len(calls))
	}

	aligned := true
	for i, call := range calls {
		if results[i].CallID != call.ID {
			aligned = false
			break
		}
	}
	if aligned {
		return results, nil
	}

	byID := make(map[string]model.ToolResult, len(results))
	for _, r := range results {
		if _, dup := byID[r.CallID]; dup {
			return nil, fmt.Errorf("duplicate result for tool call %q", r.CallID)
		}
		byID[r.CallID] = r
	}

	paired := make([]model.ToolResult, len(calls))
	for i, call := range calls {
		r, ok := byID[call.ID]
		if !ok {
			return nil, fmt.Errorf("no result for tool call %s (%s)", call.ID, call.Name)
		}
		paired[i] = r
	}
	return paired, nil
}
