package toolcall

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/effective-security/toolagent/pkg/metricskey"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Callback receives execution events.
type Callback interface {
	tools.Callback
	OnToolNotFound(ctx context.Context, name string, args []string)
}

// Result is the outcome of a single request.
type Result struct {
	Request Request
	// Output is the tool output on success.
	Output string
	// Err is the tool failure, nil on success or when the tool is not found.
	Err error
	// NotFound is true when no tool with the requested name is registered.
	NotFound bool
	Duration time.Duration
}

// Succeeded returns true if the tool was found and returned without error.
func (r Result) Succeeded() bool {
	return !r.NotFound && r.Err == nil
}

// Lines returns the result as text lines.
func (r Result) Lines() []string {
	switch {
	case r.NotFound:
		return []string{fmt.Sprintf("Error: Tool '%s' not found.", r.Request.ToolName)}
	case r.Err != nil:
		return []string{fmt.Sprintf("Error executing %s: %s", r.Request.ToolName, r.Err.Error())}
	case r.Request.HasContinuation():
		return []string{r.Output, "Next step: " + r.Request.Continuation}
	default:
		return []string{r.Output}
	}
}

// String returns the result lines joined by newlines.
func (r Result) String() string {
	return strings.Join(r.Lines(), "\n")
}

// FormatResults returns the combined results text.
func FormatResults(results []Result) string {
	var lines []string
	for _, r := range results {
		lines = append(lines, r.Lines()...)
	}
	return strings.Join(lines, "\n")
}

// Executor runs call sequences against the registry.
type Executor struct {
	registry *tools.Registry
	callback Callback
}

// ExecutorOption configures the executor.
type ExecutorOption func(*Executor)

// WithCallback sets the callback for execution events.
func WithCallback(cb Callback) ExecutorOption {
	return func(e *Executor) {
		e.callback = cb
	}
}

// NewExecutor returns an executor for the registry.
func NewExecutor(registry *tools.Registry, opts ...ExecutorOption) *Executor {
	if registry == nil {
		registry = tools.NewRegistry()
	}
	e := &Executor{
		registry: registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the tool registry.
func (e *Executor) Registry() *tools.Registry {
	return e.registry
}

// Execute runs the requests in order and returns the combined results text.
func (e *Executor) Execute(ctx context.Context, reqs []Request) string {
	return FormatResults(e.Run(ctx, reqs))
}

// Run runs the requests in order.
// The failure of one request does not prevent the following requests from running.
func (e *Executor) Run(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, e.run(ctx, req))
	}
	return results
}

func (e *Executor) run(ctx context.Context, req Request) Result {
	res := Result{Request: req}

	tool, err := e.registry.Get(req.ToolName)
	if err != nil {
		res.NotFound = true
		metricskey.StatsToolCallsNotFound.IncrCounter(1, req.ToolName)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool", req.ToolName,
			"err", err.Error(),
		)
		if e.callback != nil {
			e.callback.OnToolNotFound(ctx, req.ToolName, req.Args)
		}
		return res
	}

	toolName := tool.Name()
	if e.callback != nil {
		e.callback.OnToolStart(ctx, tool, req.Args)
	}

	started := time.Now()
	res.Output, res.Err = invoke(ctx, tool, req.Args)
	res.Duration = time.Since(started)
	metricskey.PerfToolCall.MeasureSince(started, toolName)

	if res.Err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "tool_failed",
			"tool", toolName,
			"err", res.Err.Error(),
		)
		if e.callback != nil {
			e.callback.OnToolError(ctx, tool, req.Args, res.Err)
		}
		return res
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_called",
		"tool", toolName,
		"output", slices.StringUpto(res.Output, 256),
	)
	if e.callback != nil {
		e.callback.OnToolEnd(ctx, tool, req.Args, res.Output)
	}
	return res
}

func invoke(ctx context.Context, tool tools.ITool, args []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ContextKV(ctx, xlog.ERROR,
				"status", "tool_panic",
				"tool", tool.Name(),
				"panic", r,
			)
			out = ""
			err = tools.ExecutionError("panic: %v", r)
		}
	}()
	return tool.Call(ctx, args)
}
