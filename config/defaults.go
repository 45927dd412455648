package config

import "ragai/model"

const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeminiModel    = "gemini-1.5-pro-002"
	DefaultGrokModel      = "grok-2-latest"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultXAIBaseURL    = "https://api.x.ai/v1"

	DefaultTemperature = 0
	DefaultMaxTokens   = 800

	DefaultLogLevel = "error"
)

// DefaultProfiles returns the built-in provider profiles. Anthropic has no
// base URL here; its SDK default is used.
func DefaultProfiles() Profiles {
	return Profiles{
		model.ProviderOpenAI:    {Model: DefaultOpenAIModel, BaseURL: DefaultOpenAIBaseURL},
		model.ProviderAnthropic: {Model: DefaultAnthropicModel},
		model.ProviderGoogle:    {Model: DefaultGeminiModel, BaseURL: DefaultGoogleBaseURL},
		model.ProviderXAI:       {Model: DefaultGrokModel, BaseURL: DefaultXAIBaseURL},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Logger: LoggerConfig{
			Level:    DefaultLogLevel,
			Encoding: "console",
		},
	}
}

func GenerateConfigTemplate() string {
	return `# ragai configuration
# Location: ~/.config/ragai/config.toml (override with RAGAI_CONFIG)
# This file uses TOML format: https://toml.io
#
# API keys live in credentials.toml next to this file:
#
#   [credentials]
#   openai = "sk-..."
#
# or in OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY, XAI_API_KEY.
# The first provider with a key wins, in that order.

[generation]
temperature = 0.0
# Anthropic only; OpenAI-compatible providers use their default.
max_tokens = 800

[logger]
# debug, info, warn, error (LOG_LEVEL overrides)
level = "error"
encoding = "console"

# [providers.openai]
# model = "gpt-4o"
# base_url = "https://api.openai.com/v1"

# [[mcp_servers]]
# id = "courses"
# command = "course-search-server"
# args = ["--db", "./chroma_db"]
`
}
