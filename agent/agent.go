package agent

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/pkg/llmutils"
	"github.com/effective-security/toolagent/pkg/metricskey"
	"github.com/effective-security/toolagent/store"
	"github.com/effective-security/toolagent/toolcall"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent", "agent")

// SummarySeparator separates the tool results from the summary in the final answer.
const SummarySeparator = "\n\nSummary: "

// Agent coordinates the model, the conversation log and the tools.
// Turns are serialized: concurrent calls to Run wait for the running turn.
type Agent struct {
	llm      llms.Model
	cfg      *Config
	executor *toolcall.Executor

	lock sync.Mutex
}

var _ IAgent = (*Agent)(nil)

// New returns an agent that answers with the model and the tools of the registry.
func New(llm llms.Model, registry *tools.Registry, opts ...Option) *Agent {
	cfg := NewConfig(opts...)
	var execOpts []toolcall.ExecutorOption
	if cfg.Callback != nil {
		execOpts = append(execOpts, toolcall.WithCallback(cfg.Callback))
	}
	return &Agent{
		llm:      llm,
		cfg:      cfg,
		executor: toolcall.NewExecutor(registry, execOpts...),
	}
}

// Name returns the name of the agent.
func (a *Agent) Name() string {
	return a.cfg.Name
}

// Config returns the agent configuration.
func (a *Agent) Config() *Config {
	return a.cfg
}

// Store returns the conversation log.
func (a *Agent) Store() store.ConversationLog {
	return a.cfg.Store
}

// Registry returns the tool registry.
func (a *Agent) Registry() *tools.Registry {
	return a.executor.Registry()
}

// Reset clears the conversation log, it waits for the running turn.
func (a *Agent) Reset(ctx context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.cfg.Store.Reset(ctx); err != nil {
		return errors.WithMessage(err, "failed to reset conversation")
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.Name(),
		"status", "conversation_reset",
	)
	return nil
}

// ProcessInput executes one turn and returns the final answer.
func (a *Agent) ProcessInput(ctx context.Context, input string) (string, error) {
	res, err := a.Run(ctx, input)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// Run executes one turn.
// A failure of a model query is returned and the answer is not logged,
// tool failures are reported inline in the answer.
func (a *Agent) Run(ctx context.Context, input string) (*TurnResult, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	started := time.Now()
	defer metricskey.PerfTurn.MeasureSince(started, a.Name())

	callback := a.cfg.Callback
	if callback != nil {
		callback.OnTurnStart(ctx, a, input)
	}

	res := &TurnResult{
		ID:      uuid.NewString(),
		Input:   input,
		State:   StateIdle,
		Started: started,
	}
	err := a.run(ctx, res)
	res.Duration = time.Since(started)
	if err != nil {
		metricskey.StatsTurnsFailed.IncrCounter(1, a.Name())
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", a.Name(),
			"turn_id", res.ID,
			"state", res.State,
			"err", err.Error(),
		)
		if callback != nil {
			callback.OnTurnError(ctx, a, input, err)
		}
		return nil, err
	}

	metricskey.StatsTurnsSucceeded.IncrCounter(1, a.Name(), res.Branch().String())
	turns := 0
	if chatCtx := chatmodel.GetChatContext(ctx); chatCtx != nil {
		turns = chatCtx.RecordTurn(res.ID)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.Name(),
		"turn_id", res.ID,
		"turns", turns,
		"branch", res.Branch(),
		"requests", len(res.Requests),
		"elapsed", res.Duration.String(),
	)
	if callback != nil {
		callback.OnTurnEnd(ctx, a, input, res)
	}
	return res, nil
}

func (a *Agent) run(ctx context.Context, res *TurnResult) error {
	log := a.cfg.Store
	a.addEntry(ctx, res, res.Input, chatmodel.SourceUser)

	prompt, err := a.cfg.Prompts.Build(res.Input, log.Context(ctx), a.Registry().Descriptors())
	if err != nil {
		return errors.WithMessage(err, "failed to build prompt")
	}
	res.Prompt = prompt
	res.moveTo(StateContextBuilt)

	res.Output, err = a.query(ctx, prompt, a.cfg.MaxTokens)
	if err != nil {
		return err
	}
	res.moveTo(StateModelQueried)

	res.Answer = res.Output
	res.Requests = toolcall.ParseOutput(res.Output)

	if len(res.Requests) == 0 {
		res.moveTo(StateDirectAnswer)
	} else {
		res.Results = a.executor.Run(ctx, res.Requests)
		res.moveTo(StateToolsExecuted)

		results := toolcall.FormatResults(res.Results)
		res.Summary, err = a.summarize(ctx, results)
		if err != nil {
			return err
		}
		res.Answer = results + SummarySeparator + res.Summary
		res.moveTo(StateSummarized)
	}

	a.addEntry(ctx, res, res.Answer, chatmodel.SourceAgent)
	res.moveTo(StateLogged)
	return nil
}

// summarize returns the model summary of the results.
func (a *Agent) summarize(ctx context.Context, results string) (string, error) {
	prompt, err := a.cfg.Prompts.Summary(results)
	if err != nil {
		return "", errors.WithMessage(err, "failed to build summary prompt")
	}
	return a.query(ctx, prompt, a.cfg.SummaryMaxTokens)
}

// query sends a single prompt to the model.
func (a *Agent) query(ctx context.Context, prompt string, maxTokens int) (string, error) {
	agentName := a.Name()
	modelName := a.llm.GetName()
	messages := []llms.Message{llms.HumanMessage(prompt)}

	callback := a.cfg.Callback
	if callback != nil {
		callback.OnLLMCallStart(ctx, a, a.llm, messages)
	}

	bytesSent := llmutils.CountMessagesContentSize(messages)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

	started := time.Now()
	resp, err := a.llm.GenerateContent(ctx, messages, a.cfg.GetCallOptions(maxTokens)...)
	metricskey.PerfLLMCall.MeasureSince(started, agentName, modelName)
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, agentName, modelName)
		return "", errors.WithMessagef(llms.QueryError(err), "failed to query model %s", modelName)
	}

	if callback != nil {
		callback.OnLLMCallEnd(ctx, a, a.llm, resp)
	}

	bytesReceived := llmutils.CountResponseContentSize(resp)
	metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), agentName, modelName)

	tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), agentName, modelName)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), agentName, modelName)
	metricskey.StatsLLMTotalTokens.IncrCounter(float64(tokensTotal), agentName, modelName)

	content, err := llms.FirstContent(resp)
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, agentName, modelName)
		return "", errors.WithMessagef(err, "failed to query model %s", modelName)
	}
	metricskey.StatsLLMCallsSucceeded.IncrCounter(1, agentName, modelName)

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", agentName,
		"model", modelName,
		"bytes_sent", bytesSent,
		"bytes_received", bytesReceived,
		"output", slices.StringUpto(content, 256),
	)
	return content, nil
}

func (a *Agent) addEntry(ctx context.Context, res *TurnResult, content string, source chatmodel.Source) {
	if err := a.cfg.Store.Add(ctx, content, source); err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.Name(),
			"turn_id", res.ID,
			"status", "failed_to_log_entry",
			"source", source,
			"err", err.Error(),
		)
	}
}
