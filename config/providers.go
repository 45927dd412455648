package config

import "ragai/model"

// ProviderConfig is the per-provider profile: which model to ask for and
// which endpoint to reach it on.
type ProviderConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Profiles maps a provider to its profile.
type Profiles map[model.ProviderID]ProviderConfig

// Get returns the profile for a provider, or the zero profile.
func (p Profiles) Get(id model.ProviderID) ProviderConfig {
	return p[id]
}

// Merge returns a copy of p with every non-empty field of override applied.
func (p Profiles) Merge(override Profiles) Profiles {
	merged := make(Profiles, len(p))
	for id, profile := range p {
		merged[id] = profile
	}

	for id, o := range override {
		profile := merged[id]
		if o.Model != "" {
			profile.Model = o.Model
		}
		if o.BaseURL != "" {
			profile.BaseURL = o.BaseURL
		}
		merged[id] = profile
	}

	return merged
}

// DisplayName returns a human-readable provider name.
func DisplayName(id model.ProviderID) string {
	switch id {
	case model.ProviderOpenAI:
		return "OpenAI"
	case model.ProviderAnthropic:
		return "Anthropic"
	case model.ProviderGoogle:
		return "Google Gemini"
	case model.ProviderXAI:
		return "xAI Grok"
	default:
		return string(id)
	}
}
