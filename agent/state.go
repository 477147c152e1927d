package agent

import (
	"time"

	"github.com/effective-security/toolagent/toolcall"
)

// TurnState is the state of a turn.
type TurnState string

const (
	StateIdle          TurnState = "idle"
	StateContextBuilt  TurnState = "context_built"
	StateModelQueried  TurnState = "model_queried"
	StateToolsExecuted TurnState = "tools_executed"
	StateDirectAnswer  TurnState = "direct_answer"
	StateSummarized    TurnState = "summarized"
	StateLogged        TurnState = "logged"
)

// String returns the state name.
func (s TurnState) String() string {
	return string(s)
}

// TurnResult is the outcome of a single turn.
type TurnResult struct {
	// ID is the unique turn identifier.
	ID    string
	Input string
	// Prompt is the instruction block sent to the model.
	Prompt string
	// Output is the raw model output.
	Output string
	// Requests are the tool requests parsed from Output,
	// empty for a direct answer.
	Requests []toolcall.Request
	Results  []toolcall.Result
	// Summary is the model summary of the tool results,
	// or the inline error text when the summary query failed.
	Summary string
	// Answer is the final answer returned to the user and logged.
	Answer string
	// State is the last state reached by the turn.
	State TurnState
	// Trace lists the states in the order they were reached.
	Trace    []TurnState
	Started  time.Time
	Duration time.Duration
}

// UsedTools returns true if the answer was produced by executing tools.
func (r *TurnResult) UsedTools() bool {
	return len(r.Requests) > 0
}

// Branch returns StateToolsExecuted or StateDirectAnswer.
func (r *TurnResult) Branch() TurnState {
	if r.UsedTools() {
		return StateToolsExecuted
	}
	return StateDirectAnswer
}

func (r *TurnResult) moveTo(state TurnState) {
	r.State = state
	r.Trace = append(r.Trace, state)
}
