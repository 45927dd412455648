package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the fully resolved application configuration.
type Config struct {
	Providers   Profiles          `toml:"providers"`
	Generation  GenerationConfig  `toml:"generation"`
	Logger      LoggerConfig      `toml:"logger"`
	Servers     []MCPServerConfig `toml:"mcp_servers"`
	Credentials Credentials       `toml:"-"`
}

// GenerationConfig holds the sampling parameters sent with every request.
type GenerationConfig struct {
	Temperature float64 `toml:"temperature"`
	MaxTokens   int64   `toml:"max_tokens"`
}

// Load reads the configuration from the default location.
//
// The config file path can be overridden with RAGAI_CONFIG. A missing file is
// not an error; defaults are used instead. Credentials are read from
// credentials.toml next to the config file, then environment variables take
// precedence over both.
func Load() (*Config, error) {
	return LoadFrom(ResolveConfigPath())
}

// ResolveConfigPath returns RAGAI_CONFIG when set, else the default location.
func ResolveConfigPath() string {
	if override := os.Getenv("RAGAI_CONFIG"); override != "" {
		return ExpandPath(override)
	}
	return GetConfigFilePath()
}

// LoadFrom reads the configuration from an explicit file path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if FileExists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.Providers = DefaultProfiles().Merge(cfg.Providers)

	store := NewCredentialStore()
	if err := store.Load(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.Credentials = store.Credentials()

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Credentials.OpenAI = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Credentials.Anthropic = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Credentials.Google = key
	}
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		c.Credentials.XAI = key
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logger.Level = level
	}
}
