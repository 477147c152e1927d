package llms

import (
	"context"

	"github.com/cockroachdb/errors"
)

// GenerateFromSinglePrompt is a convenience function for calling an LLM with
// a single string prompt, expecting a single string response.
// Failures are marked with ErrQueryFailed.
func GenerateFromSinglePrompt(ctx context.Context, llm Model, prompt string, options ...CallOption) (string, error) {
	resp, err := llm.GenerateContent(ctx, []Message{HumanMessage(prompt)}, options...)
	if err != nil {
		return "", QueryError(err)
	}
	return FirstContent(resp)
}

// FirstContent returns the content of the first choice.
func FirstContent(resp *ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", QueryError(ErrEmptyResponse)
	}
	return resp.Choices[0].Content, nil
}

// QueryError marks err with ErrQueryFailed.
func QueryError(err error) error {
	if err == nil || errors.Is(err, ErrQueryFailed) {
		return err
	}
	return errors.Mark(err, ErrQueryFailed)
}
