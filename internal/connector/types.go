package connector

// Status describes the connection state of an MCP server.
type Status string

const (
	StatusConnected    Status = "Connected"
	StatusDisconnected Status = "Disconnected"
	StatusError        Status = "Error"
)

// Section identifies the kind of a capability. Each section occupies a
// contiguous row range on the sheet.
type Section string

const (
	SectionTool     Section = "tool"
	SectionResource Section = "resource"
	SectionPrompt   Section = "prompt"
)

// Sections lists all sections in their fixed sheet order.
var Sections = []Section{SectionTool, SectionResource, SectionPrompt}

// Header returns the section label written to the sheet, e.g. "TOOLS".
func (s Section) Header() string {
	switch s {
	case SectionTool:
		return "TOOLS"
	case SectionResource:
		return "RESOURCES"
	case SectionPrompt:
		return "PROMPTS"
	default:
		return ""
	}
}

// Server represents an MCP server as seen during one refresh cycle.
type Server struct {
	Name         string
	Status       Status
	ErrorMessage string
}

// Capability represents a tool, resource, or prompt exposed by a server.
// Identity for sheet placement is (Section, Name); Description and
// Detail are informational only.
type Capability struct {
	Name        string
	Section     Section
	Description string
	Detail      map[string]interface{}
}

// Capabilities groups the three capability lists of one server.
type Capabilities struct {
	Tools     []Capability
	Resources []Capability
	Prompts   []Capability
}

// BySection returns the list for the given section.
func (c Capabilities) BySection(s Section) []Capability {
	switch s {
	case SectionTool:
		return c.Tools
	case SectionResource:
		return c.Resources
	case SectionPrompt:
		return c.Prompts
	default:
		return nil
	}
}

// CallResult is the outcome of invoking a tool, resource read, or
// prompt call on a server.
type CallResult struct {
	// Data holds the decoded JSON payload, if the response was JSON.
	Data interface{}
	// RawOutput holds the verbatim response text.
	RawOutput string
}
