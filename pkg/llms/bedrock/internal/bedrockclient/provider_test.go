package bedrockclient

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProvider(t *testing.T) {
	tests := []struct {
		name     string
		modelID  string
		expected string
	}{
		{
			name:     "Direct Anthropic model ID",
			modelID:  "anthropic.claude-3-sonnet-20240229-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with US region",
			modelID:  "us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with EU region",
			modelID:  "eu.anthropic.claude-3-haiku-20240307-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Direct Amazon model ID",
			modelID:  "amazon.titan-text-premier-v1:0",
			expected: "amazon",
		},
		{
			name:     "Inference Profile with Amazon",
			modelID:  "us.amazon.nova-micro-v1:0",
			expected: "amazon",
		},
		{
			name:     "Direct Meta model ID",
			modelID:  "meta.llama3-2-1b-instruct-v1:0",
			expected: "meta",
		},
		{
			name:     "Inference Profile with Meta",
			modelID:  "us.meta.llama3-2-11b-instruct-v1:0",
			expected: "meta",
		},
		{
			name:     "Single part model ID",
			modelID:  "anthropic",
			expected: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getProvider(tt.modelID)
			assert.Equal(t, tt.expected, result)
		})
	}
}

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestCreateCompletion_Anthropic(t *testing.T) {
	fake := &fakeInvoker{
		body: `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"It is sunny."}],"stop_reason":"end_turn","usage":{"input_tokens":7,"output_tokens":3}}`,
	}
	c := NewClient(fake)

	resp, err := c.CreateCompletion(context.Background(), "us.anthropic.claude-3-5-haiku-20241022-v1:0", []Message{
		{Role: llms.RoleSystem, Content: "be brief"},
		{Role: llms.RoleHuman, Content: "weather"},
		{Role: llms.RoleHuman, Content: "in Paris"},
	}, llms.CallOptions{MaxTokens: 300, Temperature: 0.7})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "It is sunny.", resp.Choices[0].Content)
	assert.Equal(t, "end_turn", resp.Choices[0].StopReason)
	assert.EqualValues(t, 10, resp.Choices[0].GenerationInfo["TotalTokens"])

	require.NotNil(t, fake.input)
	assert.Equal(t, "us.anthropic.claude-3-5-haiku-20241022-v1:0", *fake.input.ModelId)

	var sent anthropicTextGenerationInput
	require.NoError(t, json.Unmarshal(fake.input.Body, &sent))
	assert.Equal(t, AnthropicLatestVersion, sent.AnthropicVersion)
	assert.Equal(t, 300, sent.MaxTokens)
	assert.Equal(t, "be brief", sent.System)
	require.Len(t, sent.Messages, 1)
	assert.Len(t, sent.Messages[0].Content, 2)
}

func TestCreateCompletion_Errors(t *testing.T) {
	ctx := context.Background()
	msgs := []Message{{Role: llms.RoleHuman, Content: "hi"}}

	_, err := NewClient(&fakeInvoker{}).CreateCompletion(ctx, "meta.llama3-2-1b-instruct-v1:0", msgs, llms.CallOptions{})
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))

	_, err = NewClient(&fakeInvoker{err: errors.New("throttled")}).CreateCompletion(ctx, "anthropic.claude-v2", msgs, llms.CallOptions{})
	assert.EqualError(t, err, "bedrock: failed to invoke anthropic.claude-v2: throttled")

	_, err = NewClient(&fakeInvoker{body: `{"content":[]}`}).CreateCompletion(ctx, "anthropic.claude-v2", msgs, llms.CallOptions{})
	assert.True(t, errors.Is(err, llms.ErrEmptyResponse))

	_, err = NewClient(&fakeInvoker{}).CreateCompletion(ctx, "anthropic.claude-v2", nil, llms.CallOptions{})
	assert.EqualError(t, err, "bedrock: no messages")
}
