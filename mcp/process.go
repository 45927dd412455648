package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"go.uber.org/zap"

	"ragai/config"
)

const closeTimeout = 1 * time.Second

// Manager owns the configured MCP servers: local processes over stdio and
// remote servers over streamable HTTP or SSE.
type Manager struct {
	processes map[string]*ServerProcess
	order     []string
	logger    *zap.Logger
	mu        sync.RWMutex
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		processes: make(map[string]*ServerProcess),
		logger:    logger.Named("mcp"),
	}
}

// StartAll starts every configured server. A server that fails to start is
// logged and skipped; the error lists all failures.
func (m *Manager) StartAll(ctx context.Context, servers []config.MCPServerConfig) error {
	var errs []error
	for _, cfg := range servers {
		if err := m.Start(ctx, cfg); err != nil {
			m.logger.Warn("mcp server failed to start", zap.String("server", cfg.ID), zap.Error(err))
			errs = append(errs, err)
		}
	}

	switch {
	case len(errs) > 0:
		return fmt.Errorf("start errors: %v", errs)
	}
	return nil
}

func (m *Manager) Start(ctx context.Context, cfg config.MCPServerConfig) error {
	switch {
	case cfg.ID == "":
		return fmt.Errorf("mcp server id is required")
	case cfg.Command == "" && cfg.URL == "":
		return fmt.Errorf("mcp server %s: command or url is required", cfg.ID)
	}

	m.mu.RLock()
	_, running := m.processes[cfg.ID]
	m.mu.RUnlock()
	if running {
		return fmt.Errorf("mcp server %s already running", cfg.ID)
	}

	var mcpClient *client.Client
	var capturedCmd *exec.Cmd
	var err error

	switch {
	case cfg.IsRemote():
		mcpClient, err = m.createRemoteClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to mcp server %s: %w", cfg.ID, err)
		}
	default:
		mcpClient, capturedCmd, err = m.createLocalClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to start mcp server %s: %w", cfg.ID, err)
		}
	}

	tools, err := connect(ctx, mcpClient)
	if err != nil {
		m.closeClient(cfg.ID, mcpClient, capturedCmd)
		return fmt.Errorf("mcp server %s: %w", cfg.ID, err)
	}

	m.mu.Lock()
	m.processes[cfg.ID] = &ServerProcess{
		ID:      cfg.ID,
		Process: capturedCmd,
		Client:  mcpClient,
		Tools:   tools,
		Remote:  cfg.IsRemote(),
	}
	m.order = append(m.order, cfg.ID)
	m.mu.Unlock()

	m.logger.Debug("mcp server started",
		zap.String("server", cfg.ID),
		zap.Bool("remote", cfg.IsRemote()),
		zap.Int("tools", len(tools)),
	)
	return nil
}

func (m *Manager) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	proc, exists := m.processes[id]
	switch {
	case !exists:
		m.mu.Unlock()
		return fmt.Errorf("mcp server %s not found", id)
	}
	delete(m.processes, id)
	for i, name := range m.order {
		if name == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	closeCtx, cancel := context.WithTimeout(ctx, closeTimeout)
	defer cancel()

	closeDone := make(chan error, 1)
	go func() {
		closeDone <- proc.Client.Close()
	}()

	closed := false
	select {
	case err := <-closeDone:
		switch {
		case err != nil:
			m.logger.Debug("error closing mcp client", zap.String("server", id), zap.Error(err))
		default:
			closed = true
		}
	case <-closeCtx.Done():
		m.logger.Debug("mcp client close timed out", zap.String("server", id))
	}

	switch {
	case !closed && proc.Process != nil && proc.Process.Process != nil:
		if err := proc.Process.Process.Kill(); err != nil {
			m.logger.Debug("error killing mcp server", zap.String("server", id), zap.Error(err))
		}
	}

	return nil
}

// Shutdown stops all servers in parallel.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	m.mu.RUnlock()

	var wg sync.WaitGroup
	errChan := make(chan error, len(ids))

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := m.Stop(ctx, id); err != nil {
				errChan <- err
			}
		}(id)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	switch {
	case len(errs) > 0:
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// Running returns the ids of the running servers in start order.
func (m *Manager) Running() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

func (m *Manager) snapshot() []*ServerProcess {
	m.mu.RLock()
	defer m.mu.RUnlock()

	procs := make([]*ServerProcess, 0, len(m.order))
	for _, id := range m.order {
		procs = append(procs, m.processes[id])
	}
	return procs
}

func (m *Manager) closeClient(id string, mcpClient *client.Client, cmd *exec.Cmd) {
	if err := mcpClient.Close(); err != nil {
		m.logger.Debug("error closing mcp client", zap.String("server", id), zap.Error(err))
	}
	switch {
	case cmd != nil && cmd.Process != nil:
		_ = cmd.Process.Kill()
	}
}

func (m *Manager) createRemoteClient(ctx context.Context, cfg config.MCPServerConfig) (*client.Client, error) {
	kind := cfg.Transport
	switch {
	case kind == "":
		kind = "streamable-http"
	}

	var mcpClient *client.Client
	var err error

	switch kind {
	case "streamable-http":
		var opts []transport.StreamableHTTPCOption
		switch {
		case len(cfg.Headers) > 0:
			opts = append(opts, transport.WithHTTPHeaders(cfg.Headers))
		}
		mcpClient, err = client.NewStreamableHttpClient(cfg.URL, opts...)
	case "sse":
		var opts []transport.ClientOption
		switch {
		case len(cfg.Headers) > 0:
			opts = append(opts, transport.WithHeaders(cfg.Headers))
		}
		mcpClient, err = client.NewSSEMCPClient(cfg.URL, opts...)
	default:
		return nil, fmt.Errorf("unknown transport type: %s", kind)
	}
	if err != nil {
		return nil, err
	}

	// Remote transports must be started before Initialize.
	if err := mcpClient.GetTransport().Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start %s transport: %w", kind, err)
	}

	return mcpClient, nil
}

func (m *Manager) createLocalClient(cfg config.MCPServerConfig) (*client.Client, *exec.Cmd, error) {
	var capturedCmd *exec.Cmd

	cmdFunc := func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = env
		capturedCmd = cmd
		return cmd, nil
	}

	mcpClient, err := client.NewStdioMCPClientWithOptions(
		cfg.Command,
		serverEnv(cfg.Env),
		cfg.Args,
		transport.WithCommandFunc(cmdFunc),
	)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case capturedCmd != nil && capturedCmd.Process != nil:
		m.logger.Debug("started local mcp server",
			zap.String("server", cfg.ID),
			zap.Int("pid", capturedCmd.Process.Pid),
		)
	}

	return mcpClient, capturedCmd, nil
}

// serverEnv returns the current environment followed by extra in key order.
func serverEnv(extra map[string]string) []string {
	env := os.Environ()

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, extra[k]))
	}
	return env
}
