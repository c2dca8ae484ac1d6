package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/laquereric/excel-mcp-client/pkg/logging"
)

const protocolVersion = "2024-11-05"

// MCPSource talks the Model Context Protocol directly over
// streamable-http instead of shelling out to the CLI. Servers are the
// keys of the configured name -> endpoint map; connections are opened
// lazily and reused until Close.
type MCPSource struct {
	endpoints map[string]string
	timeout   time.Duration
	clients   map[string]client.MCPClient
}

// NewMCPSource creates a protocol-native capability source for the
// given name -> endpoint map.
func NewMCPSource(endpoints map[string]string, timeout time.Duration) *MCPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MCPSource{
		endpoints: endpoints,
		timeout:   timeout,
		clients:   make(map[string]client.MCPClient),
	}
}

// Close shuts down all open server connections.
func (s *MCPSource) Close() error {
	for name, c := range s.clients {
		if err := c.Close(); err != nil {
			logging.Warn("Connector", "Error closing client for %s: %v", name, err)
		}
		delete(s.clients, name)
	}
	return nil
}

// connect returns the open client for a server, dialing and performing
// the initialize handshake on first use.
func (s *MCPSource) connect(ctx context.Context, name string) (client.MCPClient, error) {
	if c, ok := s.clients[name]; ok {
		return c, nil
	}

	endpoint, ok := s.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("server %s is not configured", name)
	}

	httpClient, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
	}

	if err := httpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    "excel-mcp-client",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	initCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := httpClient.Initialize(initCtx, initReq); err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("initialization failed: %w", err)
	}

	logging.Debug("Connector", "Connected to MCP server %s at %s", name, endpoint)
	s.clients[name] = httpClient
	return httpClient, nil
}

// DiscoverServers returns the configured server names. Order is
// sorted only to make log output readable; callers must not rely on it.
func (s *MCPSource) DiscoverServers(ctx context.Context) ([]Server, error) {
	names := make([]string, 0, len(s.endpoints))
	for name := range s.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	servers := make([]Server, 0, len(names))
	for _, name := range names {
		servers = append(servers, Server{Name: name})
	}
	return servers, nil
}

// CheckConnection dials the server and runs the initialize handshake.
func (s *MCPSource) CheckConnection(ctx context.Context, name string) Server {
	if _, err := s.connect(ctx, name); err != nil {
		return Server{Name: name, Status: StatusDisconnected, ErrorMessage: err.Error()}
	}
	return Server{Name: name, Status: StatusConnected}
}

// ListTools lists the tools exposed by a server.
func (s *MCPSource) ListTools(ctx context.Context, server string) ([]Capability, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.ListTools(listCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	caps := make([]Capability, 0, len(result.Tools))
	for _, tool := range result.Tools {
		caps = append(caps, Capability{
			Name:        tool.Name,
			Section:     SectionTool,
			Description: tool.Description,
			Detail:      toDetailMap(tool),
		})
	}
	return caps, nil
}

// ListResources lists the resources exposed by a server, keyed by URI.
func (s *MCPSource) ListResources(ctx context.Context, server string) ([]Capability, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.ListResources(listCtx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	caps := make([]Capability, 0, len(result.Resources))
	for _, resource := range result.Resources {
		name := resource.URI
		if name == "" {
			name = resource.Name
		}
		caps = append(caps, Capability{
			Name:        name,
			Section:     SectionResource,
			Description: resource.Description,
			Detail:      toDetailMap(resource),
		})
	}
	return caps, nil
}

// ListPrompts lists the prompts exposed by a server.
func (s *MCPSource) ListPrompts(ctx context.Context, server string) ([]Capability, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.ListPrompts(listCtx, mcp.ListPromptsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	caps := make([]Capability, 0, len(result.Prompts))
	for _, prompt := range result.Prompts {
		caps = append(caps, Capability{
			Name:        prompt.Name,
			Section:     SectionPrompt,
			Description: prompt.Description,
			Detail:      toDetailMap(prompt),
		})
	}
	return caps, nil
}

// ToolDetail locates a tool in the server's tool list and returns its
// full definition.
func (s *MCPSource) ToolDetail(ctx context.Context, server, tool string) (map[string]interface{}, error) {
	caps, err := s.ListTools(ctx, server)
	if err != nil {
		return nil, err
	}
	return findDetail(caps, tool), nil
}

// ResourceDetail locates a resource by URI and returns its definition.
func (s *MCPSource) ResourceDetail(ctx context.Context, server, uri string) (map[string]interface{}, error) {
	caps, err := s.ListResources(ctx, server)
	if err != nil {
		return nil, err
	}
	return findDetail(caps, uri), nil
}

// PromptDetail locates a prompt and returns its definition.
func (s *MCPSource) PromptDetail(ctx context.Context, server, prompt string) (map[string]interface{}, error) {
	caps, err := s.ListPrompts(ctx, server)
	if err != nil {
		return nil, err
	}
	return findDetail(caps, prompt), nil
}

// CallTool executes a tool and returns its text content.
func (s *MCPSource) CallTool(ctx context.Context, server, tool string, args map[string]interface{}) (*CallResult, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      tool,
			Arguments: args,
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.CallTool(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}

	text := textContent(result.Content)
	if result.IsError {
		return nil, fmt.Errorf("tool error: %s", text)
	}
	return newCallResult(text), nil
}

// ReadResource reads a resource and returns its text content.
func (s *MCPSource) ReadResource(ctx context.Context, server, uri string) (*CallResult, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	req := mcp.ReadResourceRequest{
		Params: struct {
			URI       string         `json:"uri"`
			Arguments map[string]any `json:"arguments,omitempty"`
		}{
			URI: uri,
		},
	}

	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.ReadResource(readCtx, req)
	if err != nil {
		return nil, fmt.Errorf("resource read failed: %w", err)
	}

	var parts []string
	for _, content := range result.Contents {
		if text, ok := mcp.AsTextResourceContents(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return newCallResult(strings.Join(parts, "\n")), nil
}

// GetPrompt renders a prompt with the given arguments.
func (s *MCPSource) GetPrompt(ctx context.Context, server, prompt string, args map[string]interface{}) (*CallResult, error) {
	c, err := s.connect(ctx, server)
	if err != nil {
		return nil, err
	}

	// The protocol takes prompt arguments as strings.
	stringArgs := make(map[string]string, len(args))
	for key, value := range args {
		if str, ok := value.(string); ok {
			stringArgs[key] = str
		} else {
			stringArgs[key] = fmt.Sprintf("%v", value)
		}
	}

	req := mcp.GetPromptRequest{
		Params: struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments,omitempty"`
		}{
			Name:      prompt,
			Arguments: stringArgs,
		},
	}

	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := c.GetPrompt(getCtx, req)
	if err != nil {
		return nil, fmt.Errorf("prompt call failed: %w", err)
	}

	var parts []string
	for _, message := range result.Messages {
		if text, ok := mcp.AsTextContent(message.Content); ok {
			parts = append(parts, text.Text)
		}
	}
	return newCallResult(strings.Join(parts, "\n")), nil
}

// toDetailMap round-trips a protocol struct through JSON into the
// generic detail payload the sheet stores.
func toDetailMap(v interface{}) map[string]interface{} {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var detail map[string]interface{}
	if err := json.Unmarshal(encoded, &detail); err != nil {
		return nil
	}
	return detail
}

func findDetail(caps []Capability, name string) map[string]interface{} {
	for _, c := range caps {
		if c.Name == name {
			return c.Detail
		}
	}
	return nil
}

func textContent(contents []mcp.Content) string {
	var parts []string
	for _, content := range contents {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func newCallResult(text string) *CallResult {
	result := &CallResult{RawOutput: text}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		var data interface{}
		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			result.Data = data
		}
	}
	return result
}
