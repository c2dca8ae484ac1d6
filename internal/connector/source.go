package connector

import "context"

// Source is the capability source consumed by the sheet engine and the
// query functions. One call per server per refresh; all calls block and
// honor the deadline carried by ctx.
//
// List and detail calls return an error only when the server could not
// be reached at all; a malformed or empty response is reported as an
// empty result instead.
type Source interface {
	// DiscoverServers returns the identifiers of all known servers.
	// Order is not guaranteed stable across calls.
	DiscoverServers(ctx context.Context) ([]Server, error)

	// CheckConnection probes a single server and reports its status.
	// A probe failure is reported through the returned Server, not as
	// an error.
	CheckConnection(ctx context.Context, name string) Server

	ListTools(ctx context.Context, server string) ([]Capability, error)
	ListResources(ctx context.Context, server string) ([]Capability, error)
	ListPrompts(ctx context.Context, server string) ([]Capability, error)

	// Detail calls return nil when the server has no further
	// information for the capability.
	ToolDetail(ctx context.Context, server, tool string) (map[string]interface{}, error)
	ResourceDetail(ctx context.Context, server, uri string) (map[string]interface{}, error)
	PromptDetail(ctx context.Context, server, prompt string) (map[string]interface{}, error)

	CallTool(ctx context.Context, server, tool string, args map[string]interface{}) (*CallResult, error)
	ReadResource(ctx context.Context, server, uri string) (*CallResult, error)
	GetPrompt(ctx context.Context, server, prompt string, args map[string]interface{}) (*CallResult, error)
}

// ListCapabilities fetches all three sections for a server. The first
// failing section aborts the fetch so a partially reachable server is
// surfaced to the caller instead of silently losing a section.
func ListCapabilities(ctx context.Context, src Source, server string) (Capabilities, error) {
	var caps Capabilities
	var err error

	if caps.Tools, err = src.ListTools(ctx, server); err != nil {
		return Capabilities{}, err
	}
	if caps.Resources, err = src.ListResources(ctx, server); err != nil {
		return Capabilities{}, err
	}
	if caps.Prompts, err = src.ListPrompts(ctx, server); err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}
