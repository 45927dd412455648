package config

// MCPServerConfig describes one MCP server whose tools are offered to the model.
//
// Command starts a local stdio server. URL connects to a remote one instead;
// Transport selects "streamable-http" (default) or "sse" for remote servers.
type MCPServerConfig struct {
	ID        string            `toml:"id"`
	Command   string            `toml:"command"`
	Args      []string          `toml:"args"`
	Env       map[string]string `toml:"env"`
	URL       string            `toml:"url"`
	Transport string            `toml:"transport"`
	Headers   map[string]string `toml:"headers"`
}

// IsRemote reports whether the server is reached over the network.
func (s MCPServerConfig) IsRemote() bool {
	return s.URL != ""
}
