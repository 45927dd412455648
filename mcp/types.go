package mcp

import (
	"os/exec"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ClientName and ClientVersion identify ragai during the MCP handshake.
const (
	ClientName    = "ragai"
	ClientVersion = "1.0.0"
)

type ServerProcess struct {
	ID      string
	Process *exec.Cmd // nil for remote and in-process servers
	Client  *client.Client
	Tools   []mcptypes.Tool
	Remote  bool
}
