// Package generator answers questions with an LLM, letting the model run one
// round of tools before it answers.
package generator

import (
	"fmt"

	"go.uber.org/zap"

	"ragai/config"
	"ragai/model"
	"ragai/prompt"
	"ragai/provider"
)

// Generator runs queries against one selected provider.
//
// A Generator is immutable after construction and safe for concurrent use.
// Each Generate call builds its own conversation.
type Generator struct {
	protocol    provider.ToolProtocol
	selection   model.Selection
	instruction string
	logger      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithInstruction replaces the base system instruction.
func WithInstruction(instruction string) Option {
	return func(g *Generator) {
		g.instruction = instruction
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator over an already built protocol.
func New(selection model.Selection, protocol provider.ToolProtocol, opts ...Option) *Generator {
	g := &Generator{
		protocol:    protocol,
		selection:   selection,
		instruction: prompt.DefaultInstruction,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig selects a provider from the configured credentials and builds
// its SDK client. It fails with provider.ErrConfiguration when no provider
// can be used.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Generator, error) {
	g := New(model.Selection{}, nil, opts...)

	route, err := provider.Select(cfg.Credentials, cfg.Providers, g.logger)
	if err != nil {
		return nil, err
	}

	protocol, err := provider.New(route, provider.Settings{
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}, g.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", route.Provider, err)
	}

	g.protocol = protocol
	g.selection = route.Selection
	return g, nil
}

// Selection returns the provider chosen at construction.
func (g *Generator) Selection() model.Selection {
	return g.selection
}
