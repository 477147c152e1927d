package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/pkg/llms/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	_, err := openai.New()
	require.Error(t, err)
	assert.True(t, errors.Is(err, openai.ErrMissingToken))

	llm, err := openai.New(openai.WithToken("fake"))
	require.NoError(t, err)
	assert.Equal(t, openai.DefaultModel, llm.GetName())
	assert.Equal(t, llms.ProviderOpenAI, llm.GetProviderType())
	assert.Equal(t, openai.DefaultBaseURL, llm.Options.BaseURL)

	t.Setenv("OPENAI_API_KEY", "env-token")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	llm, err = openai.New(openai.WithBaseURL("http://localhost:8080/v1"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", llm.Options.Token)
	assert.Equal(t, "gpt-4.1", llm.GetName())
	assert.Equal(t, "http://localhost:8080/v1/", llm.Options.BaseURL)

	t.Setenv("PERPLEXITY_API_KEY", "pplx")
	llm, err = openai.New(openai.WithProvider(llms.ProviderPerplexity))
	require.NoError(t, err)
	assert.Equal(t, "pplx", llm.Options.Token)
	assert.Equal(t, openai.DefaultPerplexityModel, llm.GetName())
	assert.Equal(t, openai.PerplexityBaseURL, llm.Options.BaseURL)
	assert.Equal(t, llms.ProviderPerplexity, llm.GetProviderType())
}

func TestGenerateContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer fake", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req["model"])
		assert.EqualValues(t, 300, req["max_completion_tokens"])
		assert.EqualValues(t, 0.5, req["temperature"])

		msgs, _ := req["messages"].([]any)
		if assert.Len(t, msgs, 2) {
			assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
			assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
			assert.Equal(t, "What time is it?", msgs[1].(map[string]any)["content"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-test",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "USE_TOOL: Time Tool | UTC"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 8, "total_tokens": 50}
		}`))
	}))
	defer server.Close()

	llm, err := openai.New(
		openai.WithToken("fake"),
		openai.WithModel("gpt-test"),
		openai.WithBaseURL(server.URL+"/v1"),
		openai.WithHTTPClient(server.Client()),
		openai.WithMaxRetries(0),
	)
	require.NoError(t, err)

	resp, err := llm.GenerateContent(context.Background(), []llms.Message{
		llms.SystemMessage("be brief"),
		llms.HumanMessage("What time is it?"),
	}, llms.WithMaxTokens(300), llms.WithTemperature(0.5))
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "USE_TOOL: Time Tool | UTC", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)
	assert.Equal(t, llms.TokenUsage(42, 8, 50), resp.Choices[0].GenerationInfo)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{{Role: "tool", Content: "x"}})
	assert.True(t, errors.Is(err, llms.ErrUnexpectedRole))
}

func TestGenerateContent_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	llm, err := openai.New(
		openai.WithToken("fake"),
		openai.WithBaseURL(server.URL),
		openai.WithMaxRetries(0),
	)
	require.NoError(t, err)

	_, err = llms.GenerateFromSinglePrompt(context.Background(), llm, "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llms.ErrQueryFailed))
	assert.Contains(t, err.Error(), "openai: failed to create chat completion")
}

func TestGenerateContent_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer server.Close()

	llm, err := openai.New(openai.WithToken("fake"), openai.WithBaseURL(server.URL), openai.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{llms.HumanMessage("hi")})
	assert.EqualError(t, err, "openai: empty response")
	assert.True(t, errors.Is(err, llms.ErrEmptyResponse))
	assert.True(t, errors.Is(err, llms.ErrQueryFailed))
}
