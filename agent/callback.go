package agent

import (
	"context"

	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/toolcall"
)

//go:generate mockgen -source=callback.go -destination=../mocks/mockagent/agent_mock.gen.go -package mockagent

// IAgent is the orchestrator as seen by callbacks.
type IAgent interface {
	// Name returns the name of the agent, used in logs and metrics.
	Name() string
	// Run executes one turn and returns its full result.
	Run(ctx context.Context, input string) (*TurnResult, error)
	// ProcessInput executes one turn and returns the final answer.
	ProcessInput(ctx context.Context, input string) (string, error)
}

// Callback receives turn, model and tool events.
type Callback interface {
	toolcall.Callback
	OnTurnStart(ctx context.Context, a IAgent, input string)
	OnTurnEnd(ctx context.Context, a IAgent, input string, result *TurnResult)
	OnTurnError(ctx context.Context, a IAgent, input string, err error)
	OnLLMCallStart(ctx context.Context, a IAgent, llm llms.Model, payload []llms.Message)
	OnLLMCallEnd(ctx context.Context, a IAgent, llm llms.Model, resp *llms.ContentResponse)
}
