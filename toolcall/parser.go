package toolcall

import (
	"strings"

	"github.com/effective-security/toolagent/pkg/metricskey"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent", "toolcall")

// HasToolMarker returns true if the trimmed output begins with the USE_TOOL marker.
func HasToolMarker(output string) bool {
	return strings.HasPrefix(strings.TrimSpace(output), MarkerUseTool)
}

// Parse returns the ordered call sequence from the model output.
// Lines that are not part of the protocol are ignored,
// a USE_TOOL line without the argument separator is skipped.
// Empty output or output without tool calls returns an empty sequence.
func Parse(output string) []Request {
	reqs, malformed := parse(output)
	if malformed > 0 {
		metricskey.StatsToolCallLinesParsed.IncrCounter(float64(malformed), "malformed")
	}
	if len(reqs) > 0 {
		metricskey.StatsToolCallLinesParsed.IncrCounter(float64(len(reqs)), "ok")
	}
	return reqs
}

// ParseOutput returns the requests of a tool response,
// or nil if the output is a direct answer:
// only output that begins with the USE_TOOL marker is a tool response.
func ParseOutput(output string) []Request {
	if !HasToolMarker(output) {
		return nil
	}
	return Parse(output)
}

func parse(output string) ([]Request, int) {
	output = strings.TrimSpace(output)
	if output == "" {
		return []Request{}, 0
	}

	reqs := []Request{}
	malformed := 0
	var current *Request

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, MarkerUseTool):
			name, args, ok := strings.Cut(strings.TrimPrefix(line, MarkerUseTool), ArgsSeparator)
			if !ok {
				malformed++
				logger.KV(xlog.DEBUG,
					"status", "malformed_tool_call",
					"line", slices.StringUpto(line, 128),
				)
				continue
			}
			if current != nil {
				reqs = append(reqs, *current)
			}
			current = &Request{
				ToolName: strings.TrimSpace(name),
				Args:     splitArgs(args),
			}
		case strings.HasPrefix(line, MarkerThen):
			if current != nil {
				current.Continuation = strings.TrimSpace(strings.TrimPrefix(line, MarkerThen))
			}
		}
	}

	if current != nil {
		reqs = append(reqs, *current)
	}
	return reqs, malformed
}

func splitArgs(s string) []string {
	args := strings.Split(s, ArgSeparator)
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args
}
