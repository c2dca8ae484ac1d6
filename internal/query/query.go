// Package query exposes the pure request/response functions the
// surrounding application calls against a capability source. None of
// them touch the sheet; results and failures come back as strings
// suitable for direct display in a cell.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/laquereric/excel-mcp-client/internal/connector"
)

const errInvalidJSON = "ERROR: Invalid JSON arguments"

// Functions bundles the query functions over one capability source.
type Functions struct {
	source connector.Source
}

// New creates the query function set.
func New(source connector.Source) *Functions {
	return &Functions{source: source}
}

// CallTool invokes a tool with JSON-encoded arguments and returns the
// pretty-printed result, or an "ERROR: ..." string.
func (f *Functions) CallTool(ctx context.Context, server, tool, argsJSON string) string {
	args, ok := decodeArgs(argsJSON)
	if !ok {
		return errInvalidJSON
	}
	result, err := f.source.CallTool(ctx, server, tool, args)
	if err != nil {
		return errorString(err)
	}
	return renderResult(result)
}

// ReadResource reads a resource and returns its content, or an
// "ERROR: ..." string.
func (f *Functions) ReadResource(ctx context.Context, server, uri string) string {
	result, err := f.source.ReadResource(ctx, server, uri)
	if err != nil {
		return errorString(err)
	}
	return renderResult(result)
}

// GetPrompt renders a prompt with JSON-encoded arguments filled in, or
// an "ERROR: ..." string.
func (f *Functions) GetPrompt(ctx context.Context, server, prompt, argsJSON string) string {
	args, ok := decodeArgs(argsJSON)
	if !ok {
		return errInvalidJSON
	}
	result, err := f.source.GetPrompt(ctx, server, prompt, args)
	if err != nil {
		return errorString(err)
	}
	return renderResult(result)
}

// ServerStatus reports the connection status of a single server as one
// of "Connected", "Disconnected", or "Error".
func (f *Functions) ServerStatus(ctx context.Context, server string) string {
	return string(f.source.CheckConnection(ctx, server).Status)
}

// ListServers returns all known server identifiers as a
// comma-separated string.
func (f *Functions) ListServers(ctx context.Context) string {
	servers, err := f.source.DiscoverServers(ctx)
	if err != nil {
		return errorString(err)
	}
	names := make([]string, 0, len(servers))
	for _, server := range servers {
		names = append(names, server.Name)
	}
	return strings.Join(names, ", ")
}

func decodeArgs(argsJSON string) (map[string]interface{}, bool) {
	if strings.TrimSpace(argsJSON) == "" {
		argsJSON = "{}"
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, false
	}
	return args, true
}

func renderResult(result *connector.CallResult) string {
	if data, ok := result.Data.(map[string]interface{}); ok {
		pretty, err := json.MarshalIndent(data, "", "  ")
		if err == nil {
			return string(pretty)
		}
	}
	return result.RawOutput
}

func errorString(err error) string {
	return fmt.Sprintf("ERROR: %s", err)
}
