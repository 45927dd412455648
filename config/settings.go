package config

import (
	"fmt"
	"os"
	"path/filepath"

	"ragai/model"
)

// CreateDefaultConfig writes the commented config template to path and a
// credentials.toml with an empty key per provider next to it. Files that
// already exist are left alone.
func CreateDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if !FileExists(path) {
		if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	if FileExists(credentialsPath(dir)) {
		return nil
	}

	store := NewCredentialStore()
	for _, id := range []model.ProviderID{model.ProviderOpenAI, model.ProviderAnthropic, model.ProviderGoogle, model.ProviderXAI} {
		store.Set(string(id), "")
	}
	return store.Save(dir)
}
