package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/laquereric/excel-mcp-client/pkg/logging"
)

// DefaultCLIPath is the manus-mcp-cli binary resolved from PATH when
// the config does not name one.
const DefaultCLIPath = "manus-mcp-cli"

// DefaultTimeout bounds a single CLI invocation.
const DefaultTimeout = 30 * time.Second

// CLISource discovers servers and capabilities by shelling out to the
// manus-mcp-cli binary. Every invocation is bounded by the configured
// timeout on top of whatever deadline the caller's context carries.
type CLISource struct {
	cliPath string
	timeout time.Duration
}

// NewCLISource creates a CLI-backed capability source. Empty cliPath or
// a non-positive timeout fall back to the defaults.
func NewCLISource(cliPath string, timeout time.Duration) *CLISource {
	if cliPath == "" {
		cliPath = DefaultCLIPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CLISource{cliPath: cliPath, timeout: timeout}
}

// cliResult captures one CLI invocation. Data is non-nil only when
// stdout parsed as JSON.
type cliResult struct {
	data      interface{}
	rawOutput string
}

// execute runs the CLI with the given arguments and captures its
// output. A non-zero exit, a missing binary, or a timeout is returned
// as an error carrying the CLI's stderr.
func (s *CLISource) execute(ctx context.Context, args ...string) (*cliResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.cliPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	logging.Debug("Connector", "Executing %s %s", s.cliPath, strings.Join(args, " "))

	runErr := cmd.Run()

	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runErr != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("command timed out after %s", s.timeout)
		}
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = strings.TrimSpace(stdout)
		}
		if detail == "" {
			return nil, fmt.Errorf("%s %s failed: %w", s.cliPath, args[0], runErr)
		}
		return nil, fmt.Errorf("%s", detail)
	}

	result := &cliResult{rawOutput: stdout}
	if trimmed := strings.TrimSpace(stdout); trimmed != "" {
		var data interface{}
		// Non-JSON output is legal; keep the raw text only.
		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			result.data = data
		}
	}
	return result, nil
}

// DiscoverServers lists all configured MCP servers. A failure to run
// the CLI is a real error; an empty or "no servers" response is an
// empty list.
func (s *CLISource) DiscoverServers(ctx context.Context) ([]Server, error) {
	result, err := s.execute(ctx, "server", "list")
	if err != nil {
		return nil, fmt.Errorf("server discovery failed: %w", err)
	}

	if strings.Contains(result.rawOutput, "No MCP servers found") {
		return nil, nil
	}

	var servers []Server
	switch data := result.data.(type) {
	case []interface{}:
		for _, entry := range data {
			switch v := entry.(type) {
			case map[string]interface{}:
				if name, _ := v["name"].(string); name != "" {
					servers = append(servers, Server{Name: name})
				}
			case string:
				servers = append(servers, Server{Name: v})
			}
		}
	case map[string]interface{}:
		for name := range data {
			servers = append(servers, Server{Name: name})
		}
	default:
		// Text output: one server per line, first field is the name.
		for _, line := range strings.Split(strings.TrimSpace(result.rawOutput), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "No ") {
				continue
			}
			if fields := strings.Fields(line); len(fields) > 0 {
				servers = append(servers, Server{Name: fields[0]})
			}
		}
	}
	return servers, nil
}

// CheckConnection probes a server. The CLI exiting non-zero means the
// server is unreachable; that is reported as a status, not an error.
func (s *CLISource) CheckConnection(ctx context.Context, name string) Server {
	if _, err := s.execute(ctx, "server", "check", "-s", name); err != nil {
		return Server{Name: name, Status: StatusDisconnected, ErrorMessage: err.Error()}
	}
	return Server{Name: name, Status: StatusConnected}
}

// ListTools lists the tools exposed by a server.
func (s *CLISource) ListTools(ctx context.Context, server string) ([]Capability, error) {
	result, err := s.execute(ctx, "tool", "list", "-s", server)
	if err != nil {
		return nil, err
	}
	return parseCapabilities(result.data, SectionTool, "tools", "name"), nil
}

// ListResources lists the resources exposed by a server. Resources are
// keyed by URI, falling back to name for servers that omit one.
func (s *CLISource) ListResources(ctx context.Context, server string) ([]Capability, error) {
	result, err := s.execute(ctx, "resource", "list", "-s", server)
	if err != nil {
		return nil, err
	}
	return parseCapabilities(result.data, SectionResource, "resources", "uri"), nil
}

// ListPrompts lists the prompts exposed by a server.
func (s *CLISource) ListPrompts(ctx context.Context, server string) ([]Capability, error) {
	result, err := s.execute(ctx, "prompt", "list", "-s", server)
	if err != nil {
		return nil, err
	}
	return parseCapabilities(result.data, SectionPrompt, "prompts", "name"), nil
}

// parseCapabilities decodes a capability list from the CLI's JSON
// output. The CLI emits either a bare list or an object wrapping the
// list under listKey; entries may be objects or plain name strings.
// Anything unrecognizable yields an empty list.
func parseCapabilities(data interface{}, section Section, listKey, primaryKey string) []Capability {
	var entries []interface{}
	switch v := data.(type) {
	case []interface{}:
		entries = v
	case map[string]interface{}:
		if wrapped, ok := v[listKey].([]interface{}); ok {
			entries = wrapped
		}
	}

	var caps []Capability
	for _, entry := range entries {
		switch v := entry.(type) {
		case map[string]interface{}:
			name, _ := v[primaryKey].(string)
			if name == "" {
				name, _ = v["name"].(string)
			}
			if name == "" {
				continue
			}
			description, _ := v["description"].(string)
			caps = append(caps, Capability{
				Name:        name,
				Section:     section,
				Description: description,
				Detail:      v,
			})
		case string:
			caps = append(caps, Capability{Name: v, Section: section})
		}
	}
	return caps
}

// ToolDetail fetches the full definition of a tool, or nil if the CLI
// reports an error for it.
func (s *CLISource) ToolDetail(ctx context.Context, server, tool string) (map[string]interface{}, error) {
	return s.detail(ctx, "tool", "get", tool, server)
}

// ResourceDetail fetches the full definition of a resource.
func (s *CLISource) ResourceDetail(ctx context.Context, server, uri string) (map[string]interface{}, error) {
	return s.detail(ctx, "resource", "get", uri, server)
}

// PromptDetail fetches the full definition of a prompt.
func (s *CLISource) PromptDetail(ctx context.Context, server, prompt string) (map[string]interface{}, error) {
	return s.detail(ctx, "prompt", "get", prompt, server)
}

func (s *CLISource) detail(ctx context.Context, kind, verb, name, server string) (map[string]interface{}, error) {
	result, err := s.execute(ctx, kind, verb, name, "-s", server)
	if err != nil {
		return nil, err
	}
	if detail, ok := result.data.(map[string]interface{}); ok {
		return detail, nil
	}
	return nil, nil
}

// CallTool executes a tool with JSON-encoded arguments.
func (s *CLISource) CallTool(ctx context.Context, server, tool string, args map[string]interface{}) (*CallResult, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool arguments: %w", err)
	}
	result, err := s.execute(ctx, "tool", "call", tool, "-s", server, "--input", string(encoded))
	if err != nil {
		return nil, err
	}
	return &CallResult{Data: result.data, RawOutput: result.rawOutput}, nil
}

// ReadResource reads a resource by URI.
func (s *CLISource) ReadResource(ctx context.Context, server, uri string) (*CallResult, error) {
	result, err := s.execute(ctx, "resource", "read", uri, "-s", server)
	if err != nil {
		return nil, err
	}
	return &CallResult{Data: result.data, RawOutput: result.rawOutput}, nil
}

// GetPrompt renders a prompt with JSON-encoded arguments.
func (s *CLISource) GetPrompt(ctx context.Context, server, prompt string, args map[string]interface{}) (*CallResult, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prompt arguments: %w", err)
	}
	result, err := s.execute(ctx, "prompt", "call", prompt, "-s", server, "--arguments", string(encoded))
	if err != nil {
		return nil, err
	}
	return &CallResult{Data: result.data, RawOutput: result.rawOutput}, nil
}
