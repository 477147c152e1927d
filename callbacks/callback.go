// Package callbacks provides agent.Callback implementations:
// printing, logging, fan-out and per-run statistics.
package callbacks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/effective-security/toolagent/agent"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ agent.Callback = (*Noop)(nil)
	_ tools.Callback = (*Noop)(nil)
	_ agent.Callback = (*Printer)(nil)
	_ tools.Callback = (*Printer)(nil)
	_ agent.Callback = (*PackageLogger)(nil)
	_ tools.Callback = (*PackageLogger)(nil)
	_ agent.Callback = (*Fanout)(nil)
	_ tools.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

func formatArgs(args []string) string {
	return strings.Join(args, ", ")
}

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []agent.Callback
}

func NewFanout(callbacks ...agent.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback agent.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnTurnStart(ctx context.Context, a agent.IAgent, input string) {
	for _, callback := range l.callbacks {
		callback.OnTurnStart(ctx, a, input)
	}
}

func (l *Fanout) OnTurnEnd(ctx context.Context, a agent.IAgent, input string, result *agent.TurnResult) {
	for _, callback := range l.callbacks {
		callback.OnTurnEnd(ctx, a, input, result)
	}
}

func (l *Fanout) OnTurnError(ctx context.Context, a agent.IAgent, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnTurnError(ctx, a, input, err)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, a agent.IAgent, llm llms.Model, payload []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, a, llm, payload)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, a agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, a, llm, resp)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, args []string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, args)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, args []string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, args, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, args []string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, args, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, name string, args []string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, name, args)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnTurnStart(ctx context.Context, a agent.IAgent, input string) {}
func (l *Noop) OnTurnEnd(ctx context.Context, a agent.IAgent, input string, result *agent.TurnResult) {
}
func (l *Noop) OnTurnError(ctx context.Context, a agent.IAgent, input string, err error) {}
func (l *Noop) OnLLMCallStart(ctx context.Context, a agent.IAgent, llm llms.Model, payload []llms.Message) {
}
func (l *Noop) OnLLMCallEnd(ctx context.Context, a agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, args []string) {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, args []string, output string) {
}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, args []string, err error) {}
func (l *Noop) OnToolNotFound(ctx context.Context, name string, args []string)              {}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnTurnStart(ctx context.Context, a agent.IAgent, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Start: %s\n", a.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnTurnEnd(ctx context.Context, a agent.IAgent, input string, result *agent.TurnResult) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn End: %s: %s, %d requests, %s\n", a.Name(), result.Branch(), len(result.Requests), result.Duration)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Answer: %s\n", result.Answer)
	}
}

func (l *Printer) OnTurnError(ctx context.Context, a agent.IAgent, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Turn Error: %s: %s\n", a.Name(), err.Error())
}

func (l *Printer) OnLLMCallStart(ctx context.Context, a agent.IAgent, llm llms.Model, payload []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call: %s: %s model, %d messages\n", a.Name(), llm.GetName(), len(payload))
	if l.Mode == ModeVerbose {
		for _, msg := range payload {
			fmt.Fprintf(l.Out, "%s: %s\n", strings.ToUpper(string(msg.Role)), msg.Content)
		}
	}
}

func (l *Printer) OnLLMCallEnd(ctx context.Context, a agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "LLM Call End: %s: %s model, %d choices\n", a.Name(), llm.GetName(), len(resp.Choices))
	if l.Mode == ModeVerbose {
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				fmt.Fprintln(l.Out, choice.Content)
			}
		}
	}
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, args []string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s\n", tool.Name())
	fmt.Fprintf(l.Out, "Args: %s\n", formatArgs(args))
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, args []string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s\n", tool.Name())
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, args []string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", tool.Name(), err.Error())
}

func (l *Printer) OnToolNotFound(ctx context.Context, name string, args []string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Not Found: %s\n", name)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnTurnStart(ctx context.Context, a agent.IAgent, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "turn_start",
		"agent", a.Name(),
		"input", slices.StringUpto(input, 256),
	)
}

func (l *PackageLogger) OnTurnEnd(ctx context.Context, a agent.IAgent, input string, result *agent.TurnResult) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "turn_end",
		"agent", a.Name(),
		"turn_id", result.ID,
		"branch", result.Branch(),
		"requests", len(result.Requests),
		"answer", slices.StringUpto(result.Answer, 256),
	)
}

func (l *PackageLogger) OnTurnError(ctx context.Context, a agent.IAgent, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "turn_error",
		"agent", a.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, a agent.IAgent, llm llms.Model, payload []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_start",
		"agent", a.Name(),
		"model", llm.GetName(),
		"messages", len(payload),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, a agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_end",
		"agent", a.Name(),
		"model", llm.GetName(),
		"choices", len(resp.Choices),
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, args []string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"args", formatArgs(args),
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, args []string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"output", slices.StringUpto(output, 256),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, args []string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, name string, args []string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_not_found",
		"tool", name,
	)
}
