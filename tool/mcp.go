package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/smallnest/agentswarm/log"
)

// MCPServerConfig describes one MCP server connection. Command starts a
// stdio server; URL connects to an SSE server. Exactly one of the two
// must be set.
type MCPServerConfig struct {
	Command string
	Args    []string
	Env     map[string]string

	URL     string
	Headers map[string]string
}

// MCPProvider loads tools from Model Context Protocol servers so agents
// can use remote capabilities without per-API wrappers.
type MCPProvider struct {
	servers map[string]MCPServerConfig
	clients map[string]client.MCPClient
	logger  log.Logger

	// MaxRetries and RetryDelay bound the tool listing retry loop.
	// The policy is deliberately simple: a fixed attempt count with a
	// fixed delay, no backoff curve.
	MaxRetries int
	RetryDelay time.Duration
}

// NewMCPProvider creates a provider for the given named servers.
func NewMCPProvider(servers map[string]MCPServerConfig, logger log.Logger) *MCPProvider {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &MCPProvider{
		servers:    servers,
		clients:    make(map[string]client.MCPClient),
		logger:     logger,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}
}

// Connect establishes and initializes a client per configured server.
func (p *MCPProvider) Connect(ctx context.Context) error {
	for name, cfg := range p.servers {
		mcpClient, err := p.newClient(ctx, name, cfg)
		if err != nil {
			p.closeAll()
			return fmt.Errorf("failed to create MCP client for %s: %w", name, err)
		}

		initRequest := mcpgo.InitializeRequest{}
		initRequest.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
		initRequest.Params.ClientInfo = mcpgo.Implementation{
			Name:    "agentswarm",
			Version: "0.1.0",
		}
		initRequest.Params.Capabilities = mcpgo.ClientCapabilities{}

		if _, err := mcpClient.Initialize(ctx, initRequest); err != nil {
			_ = mcpClient.Close()
			p.closeAll()
			return fmt.Errorf("failed to initialize MCP client for %s: %w", name, err)
		}

		p.clients[name] = mcpClient
		p.logger.Info("connected to MCP server %s", name)
	}
	return nil
}

func (p *MCPProvider) newClient(ctx context.Context, name string, cfg MCPServerConfig) (client.MCPClient, error) {
	if cfg.URL != "" {
		var options []transport.ClientOption
		if len(cfg.Headers) > 0 {
			options = append(options, transport.WithHeaders(cfg.Headers))
		}
		sseClient, err := client.NewSSEMCPClient(cfg.URL, options...)
		if err != nil {
			return nil, err
		}
		if err := sseClient.Start(ctx); err != nil {
			_ = sseClient.Close()
			return nil, err
		}
		return sseClient, nil
	}

	var env []string
	for k, v := range cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return client.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
}

// LoadTools lists tools from every connected server and wraps them as
// Tools. Listing is retried MaxRetries times per server with a fixed
// delay; exhausting the retries is fatal for that server.
func (p *MCPProvider) LoadTools(ctx context.Context) ([]Tool, error) {
	var allTools []Tool

	for serverName, mcpClient := range p.clients {
		toolsResp, err := p.listToolsWithRetry(ctx, serverName, mcpClient)
		if err != nil {
			return nil, err
		}

		for _, remote := range toolsResp.Tools {
			allTools = append(allTools, &mcpTool{
				cli:         mcpClient,
				name:        remote.Name,
				description: remote.Description,
				inputSchema: remote.InputSchema,
			})
		}
		p.logger.Info("loaded %d tools from MCP server %s", len(toolsResp.Tools), serverName)
	}

	return allTools, nil
}

func (p *MCPProvider) listToolsWithRetry(ctx context.Context, serverName string, mcpClient client.MCPClient) (*mcpgo.ListToolsResult, error) {
	var lastErr error
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		resp, err := mcpClient.ListTools(ctx, mcpgo.ListToolsRequest{})
		if err == nil {
			return resp, nil
		}
		lastErr = err
		p.logger.Error("attempt %d/%d failed to list tools from %s: %v",
			attempt, p.MaxRetries, serverName, err)

		if attempt == p.MaxRetries {
			break
		}
		select {
		case <-time.After(p.RetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("listing tools from %s failed after %d attempts: %w",
		serverName, p.MaxRetries, lastErr)
}

// Close closes every client connection.
func (p *MCPProvider) Close() {
	p.closeAll()
}

func (p *MCPProvider) closeAll() {
	for _, c := range p.clients {
		_ = c.Close()
	}
	p.clients = make(map[string]client.MCPClient)
}

// mcpTool adapts one remote MCP tool to the Tool interface.
type mcpTool struct {
	cli         client.MCPClient
	name        string
	description string
	inputSchema mcpgo.ToolInputSchema
}

func (t *mcpTool) Name() string        { return t.name }
func (t *mcpTool) Description() string { return t.description }

func (t *mcpTool) Parameters() map[string]any {
	data, err := json.Marshal(t.inputSchema)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	if _, hasType := schema["type"]; !hasType {
		schema["type"] = "object"
	}
	return schema
}

func (t *mcpTool) Call(ctx context.Context, arguments string) (string, error) {
	var paramsMap map[string]any
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &paramsMap); err != nil {
			return "", fmt.Errorf("failed to unmarshal arguments: %w", err)
		}
	}

	callReq := mcpgo.CallToolRequest{}
	callReq.Params.Name = t.name
	callReq.Params.Arguments = paramsMap

	resp, err := t.cli.CallTool(ctx, callReq)
	if err != nil {
		return "", fmt.Errorf("MCP tool call failed: %w", err)
	}

	if resp.IsError {
		if len(resp.Content) > 0 {
			return "", fmt.Errorf("MCP tool error: %v", resp.Content[0])
		}
		return "", fmt.Errorf("MCP tool error: unknown error")
	}

	if len(resp.Content) == 0 {
		return "", nil
	}
	if len(resp.Content) == 1 {
		contentBytes, err := json.Marshal(resp.Content[0])
		if err != nil {
			return "", fmt.Errorf("failed to marshal response: %w", err)
		}
		return string(contentBytes), nil
	}

	contentBytes, err := json.Marshal(resp.Content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(contentBytes), nil
}
