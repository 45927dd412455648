package provider

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"ragai/model"
)

// New creates the ToolProtocol for a selected route.
//
// This is the centralized factory for both conventions. SDK clients are built
// with retries disabled: a failed request is classified and returned, never
// repeated.
//
// Returns an error if:
//   - The route has no API key
//   - The convention is unknown
//   - A function-calling route has no base URL
//
// Example:
//
//	route, _ := provider.Select(creds, profiles, logger)
//	proto, err := provider.New(route, provider.Settings{MaxTokens: 800}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(route Route, settings Settings, logger *zap.Logger) (ToolProtocol, error) {
	if route.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key is required", ErrConfiguration, route.Provider)
	}

	switch route.Convention {
	case model.ConventionNative:
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(route.APIKey),
			anthropicoption.WithMaxRetries(0),
		}
		if route.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(route.BaseURL))
		}
		client := anthropic.NewClient(opts...)
		return NewAnthropicProtocol(&client.Messages, route.Model, settings, logger), nil

	case model.ConventionFunctionCalling:
		if route.BaseURL == "" {
			return nil, fmt.Errorf("%w: %s has no OpenAI-compatible endpoint", ErrConfiguration, route.Provider)
		}
		client := openai.NewClient(
			openaioption.WithBaseURL(route.BaseURL),
			openaioption.WithAPIKey(route.APIKey),
			openaioption.WithMaxRetries(0),
		)
		return NewOpenAIProtocol(&client.Chat.Completions, route.Provider, route.Model, settings, logger), nil

	default:
		return nil, fmt.Errorf("%w: unknown convention %q", ErrConfiguration, route.Convention)
	}
}
