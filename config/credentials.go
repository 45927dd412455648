package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"ragai/model"
)

// Credentials holds one API key per provider. A missing key is an empty string.
type Credentials struct {
	OpenAI    string
	Anthropic string
	Google    string
	XAI       string
}

// APIKey returns the key stored for a provider.
func (c Credentials) APIKey(id model.ProviderID) string {
	switch id {
	case model.ProviderOpenAI:
		return c.OpenAI
	case model.ProviderAnthropic:
		return c.Anthropic
	case model.ProviderGoogle:
		return c.Google
	case model.ProviderXAI:
		return c.XAI
	default:
		return ""
	}
}

// CredentialStore manages plain-text API credentials on disk.
type CredentialStore struct {
	credentials map[string]string // providerID → API key
}

// NewCredentialStore creates an empty credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		credentials: make(map[string]string),
	}
}

// Load loads credentials from dir/credentials.toml. A missing file leaves the store empty.
func (c *CredentialStore) Load(dir string) error {
	path := credentialsPath(dir)

	if !FileExists(path) {
		return nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return fmt.Errorf("failed to parse credentials file: %w", err)
	}

	for id, key := range cf.Credentials {
		c.credentials[id] = key
	}
	return nil
}

// Save writes credentials to dir/credentials.toml with 0600 permissions.
func (c *CredentialStore) Save(dir string) error {
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(credentialsPath(dir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(credentialsFile{Credentials: c.credentials}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

// Get retrieves a credential for a provider
func (c *CredentialStore) Get(providerID string) string {
	return c.credentials[providerID]
}

// Set stores a credential for a provider
func (c *CredentialStore) Set(providerID string, apiKey string) {
	c.credentials[providerID] = apiKey
}

// Credentials returns the stored keys for the known providers.
func (c *CredentialStore) Credentials() Credentials {
	return Credentials{
		OpenAI:    c.Get(string(model.ProviderOpenAI)),
		Anthropic: c.Get(string(model.ProviderAnthropic)),
		Google:    c.Get(string(model.ProviderGoogle)),
		XAI:       c.Get(string(model.ProviderXAI)),
	}
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// credentialsPath returns the path to the plain text credentials file
func credentialsPath(dir string) string {
	return filepath.Join(dir, "credentials.toml")
}
