package toolcall

import "strings"

const (
	// MarkerUseTool starts a tool call line.
	MarkerUseTool = "USE_TOOL:"
	// MarkerThen starts a continuation line for the preceding tool call.
	MarkerThen = "THEN:"
	// ArgsSeparator separates the tool name from the arguments.
	ArgsSeparator = "|"
	// ArgSeparator separates the arguments.
	ArgSeparator = ","
)

// Request is a single tool invocation recovered from model output.
type Request struct {
	ToolName string   `json:"ToolName" yaml:"ToolName" toml:"ToolName" validate:"required"`
	Args     []string `json:"Args" yaml:"Args" toml:"Args"`
	// Continuation is the free-text next step, empty if none.
	Continuation string `json:"Continuation,omitempty" yaml:"Continuation,omitempty" toml:"Continuation,omitempty"`
}

// HasContinuation returns true if the request carries a next step.
func (r Request) HasContinuation() bool {
	return r.Continuation != ""
}

// String returns the request in the wire format.
func (r Request) String() string {
	var sb strings.Builder
	sb.WriteString(MarkerUseTool)
	sb.WriteString(" ")
	sb.WriteString(r.ToolName)
	sb.WriteString(" ")
	sb.WriteString(ArgsSeparator)
	sb.WriteString(" ")
	sb.WriteString(strings.Join(r.Args, ArgSeparator+" "))
	if r.HasContinuation() {
		sb.WriteString("\n")
		sb.WriteString(MarkerThen)
		sb.WriteString(" ")
		sb.WriteString(r.Continuation)
	}
	return sb.String()
}

// FormatRequests returns the requests in the wire format, one per line group.
func FormatRequests(reqs []Request) string {
	lines := make([]string, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
