package provider

import (
	"fmt"

	"go.uber.org/zap"

	"ragai/config"
	"ragai/model"
)

// Priority is the fixed provider precedence. The first provider with a
// non-empty credential is selected; there is no fallback to the next one.
var Priority = []model.ProviderID{
	model.ProviderOpenAI,
	model.ProviderAnthropic,
	model.ProviderGoogle,
	model.ProviderXAI,
}

// CredentialSource supplies one API key per provider. Missing keys are "".
type CredentialSource interface {
	APIKey(id model.ProviderID) string
}

// Route is the outcome of provider selection: what to call and how to reach it.
type Route struct {
	model.Selection
	APIKey  string
	BaseURL string
}

// ConventionFor returns the tool-calling convention a provider speaks.
func ConventionFor(id model.ProviderID) model.Convention {
	if id == model.ProviderAnthropic {
		return model.ConventionNative
	}
	return model.ConventionFunctionCalling
}

// Select picks the provider for the lifetime of a generator.
//
// It walks Priority and takes the first provider with a credential. Selection
// fails with ErrConfiguration when no credential is set, or when a
// function-calling provider is chosen but its profile has no
// OpenAI-compatible endpoint.
func Select(creds CredentialSource, profiles config.Profiles, logger *zap.Logger) (Route, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, id := range Priority {
		key := creds.APIKey(id)
		if key == "" {
			continue
		}

		profile := profiles.Get(id)
		route := Route{
			Selection: model.Selection{
				Provider:   id,
				Model:      profile.Model,
				Convention: ConventionFor(id),
			},
			APIKey:  key,
			BaseURL: profile.BaseURL,
		}

		if route.Convention == model.ConventionFunctionCalling && route.BaseURL == "" {
			return Route{}, fmt.Errorf("%w: %s is selected but has no OpenAI-compatible endpoint", ErrConfiguration, config.DisplayName(id))
		}
		if route.Model == "" {
			return Route{}, fmt.Errorf("%w: no model configured for %s", ErrConfiguration, config.DisplayName(id))
		}

		logger.Info("provider selected",
			zap.String("provider", string(id)),
			zap.String("model", route.Model),
			zap.String("convention", string(route.Convention)),
			zap.String("api_key", MaskAPIKey(key)),
		)
		return route, nil
	}

	return Route{}, fmt.Errorf("%w: no API key found; set one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY or XAI_API_KEY", ErrConfiguration)
}

// MaskAPIKey renders a secret for logging: the first and last four
// characters around "****", or just "****" for keys shorter than eight.
func MaskAPIKey(key string) string {
	r := []rune(key)
	if len(r) < 8 {
		return "****"
	}
	return string(r[:4]) + "****" + string(r[len(r)-4:])
}
