package tools

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

var (
	// ErrToolExecution marks failures of a tool invocation,
	// caused by invalid input or a downstream failure.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrToolNotFound is returned when a tool is not registered.
	ErrToolNotFound = errors.New("tool not found")
)

// ITool is a tool for the agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Call executes the tool with the given positional arguments and returns the result.
	// Failures should be marked with ErrToolExecution.
	Call(ctx context.Context, args []string) (string, error)
}

// Callback receives tool invocation events.
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, args []string)
	OnToolEnd(ctx context.Context, tool ITool, args []string, output string)
	OnToolError(ctx context.Context, tool ITool, args []string, err error)
}

// Descriptor describes a tool in the prompt catalog.
type Descriptor struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

// String returns the catalog line "- <name>: <description>".
func (d Descriptor) String() string {
	return "- " + d.Name + ": " + d.Description
}

// Describe returns the descriptor of the tool.
func Describe(tool ITool) Descriptor {
	return Descriptor{
		Name:        tool.Name(),
		Description: tool.Description(),
	}
}

// GetDescriptions returns the descriptors of the tools, in the given order.
func GetDescriptions(list ...ITool) []Descriptor {
	ds := make([]Descriptor, 0, len(list))
	for _, tool := range list {
		ds = append(ds, Describe(tool))
	}
	return ds
}

// ExecutionError returns an error marked with ErrToolExecution.
// The message of the returned error does not include the marker.
func ExecutionError(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrToolExecution)
}

// WrapExecutionError wraps err with the message and marks it with ErrToolExecution.
func WrapExecutionError(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrToolExecution)
}

// NormalizeName returns the registry key for the tool name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
