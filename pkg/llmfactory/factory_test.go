package llmfactory_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolagent/pkg/llmfactory"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	provider string
	model    string
}

func (f *fakeLLM) GetName() string {
	return f.model
}

func (f *fakeLLM) GetProviderType() llms.ProviderType {
	return llms.ProviderType(f.provider)
}

func (f *fakeLLM) GenerateContent(context.Context, []llms.Message, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.model}}}, nil
}

func useFakeLLM(t *testing.T) {
	llmfactory.NewLLM = func(cfg *llmfactory.ProviderConfig, preferredModels ...string) (llms.Model, error) {
		return &fakeLLM{provider: cfg.Name, model: cfg.FindModel(preferredModels...)}, nil
	}
	t.Cleanup(func() {
		llmfactory.NewLLM = llmfactory.CreateLLM
	})
}

func Test_Factory(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fakekey")
	t.Setenv("ANTHROPIC_API_KEY", "fakekey")
	useFakeLLM(t)

	cfg, err := llmfactory.LoadConfig("testdata/llm.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 5)
	assert.Equal(t, "fakekey", cfg.Providers[0].Token)
	assert.Equal(t, "us-west-2", cfg.Providers[4].Cloud.Region)

	f := llmfactory.New(cfg)
	model, err := f.DefaultModel()
	require.NoError(t, err)
	fm := model.(*fakeLLM)
	assert.Equal(t, "gpt-4o", fm.model)
	assert.Equal(t, "OPENAI", fm.provider)

	model, err = f.ModelByName("unknown-model", "claude-3-5-haiku-latest")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "claude-3-5-haiku-latest", fm.model)
	assert.Equal(t, "ANTHROPIC", fm.provider)

	// falls back to the default model
	model, err = f.ModelByName("non-existent-model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", model.GetName())

	model, err = f.ModelByType("BEDROCK")
	require.NoError(t, err)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", model.GetName())

	model, err = f.ModelByType("perplexity")
	require.NoError(t, err)
	assert.Equal(t, "sonar", model.GetName())

	_, err = f.ModelByType("UNSUPPORTED")
	assert.EqualError(t, err, "provider not found for type: UNSUPPORTED")

	model, err = f.AgentModel("summarizer")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", model.GetName())

	model, err = f.AgentModel("toolagent", "claude-sonnet-4-20250514")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", model.GetName())
}

func Test_DefaultProvider(t *testing.T) {
	useFakeLLM(t)

	_, err := llmfactory.New(&llmfactory.Config{}).DefaultModel()
	assert.EqualError(t, err, "no providers configured")

	cfg := &llmfactory.Config{
		DefaultProvider: "non-existent",
		Providers: []*llmfactory.ProviderConfig{
			{Name: "first", DefaultModel: "m1"},
			{Name: "second", DefaultModel: "m2"},
		},
	}
	model, err := llmfactory.New(cfg).DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "m1", model.GetName())

	cfg.DefaultProvider = "second"
	model, err = llmfactory.New(cfg).DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "m2", model.GetName())
}

func Test_ModelCaching(t *testing.T) {
	useFakeLLM(t)

	cfg := &llmfactory.Config{
		Providers: []*llmfactory.ProviderConfig{
			{
				Name:            "OPENAI",
				OpenAI:          llmfactory.OpenAIConfig{APIType: "OPENAI"},
				AvailableModels: []string{"gpt-4o", "gpt-4o-mini"},
				DefaultModel:    "gpt-4o",
			},
		},
	}
	f := llmfactory.New(cfg)

	model1, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	model2, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	assert.Same(t, model1, model2)

	model3, err := f.ModelByName("gpt-4o-mini")
	require.NoError(t, err)
	model4, err := f.ModelByName("gpt-4o-mini")
	require.NoError(t, err)
	assert.Same(t, model3, model4)
}

func Test_LoadConfig(t *testing.T) {
	cfg, err := llmfactory.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)

	_, err = llmfactory.LoadConfig("testdata/non-existent.yaml")
	require.Error(t, err)

	_, err = llmfactory.LoadConfig("testdata/invalid.yaml")
	require.Error(t, err)

	_, err = llmfactory.Load("testdata/non-existent.yaml")
	require.Error(t, err)
}

func Test_LoadConfigTOML(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "toml-key")

	cfg, err := llmfactory.LoadConfig("testdata/llm.toml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, "ANTHROPIC", cfg.DefaultProvider)
	assert.Equal(t, "toml-key", cfg.Providers[0].Token)
	assert.Equal(t, "ANTHROPIC", cfg.Providers[0].OpenAI.APIType)
	assert.Equal(t, "my-project", cfg.Providers[1].Cloud.Project)
	assert.Equal(t, []string{"claude-3-5-haiku-latest"}, cfg.AgentModels["default"])

	timeout, err := cfg.Providers[0].RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, timeout)
}

func Test_CreateLLM(t *testing.T) {
	cfg := &llmfactory.ProviderConfig{
		Name:            "test-provider",
		Token:           "fakekey",
		OpenAI:          llmfactory.OpenAIConfig{APIType: "OPENAI"},
		AvailableModels: []string{"gpt-4o"},
		DefaultModel:    "gpt-4o",
		Timeout:         "10s",
	}

	model, err := llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())

	cfg.OpenAI.APIType = "PERPLEXITY"
	cfg.DefaultModel = ""
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderPerplexity, model.GetProviderType())
	assert.Equal(t, "sonar", model.GetName())

	cfg.OpenAI.APIType = "ANTHROPIC"
	cfg.DefaultModel = "claude-3-5-haiku-latest"
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAnthropic, model.GetProviderType())

	cfg.OpenAI.APIType = "GOOGLEAI"
	cfg.DefaultModel = "gemini-2.5-flash"
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderGoogleAI, model.GetProviderType())

	cfg.OpenAI.APIType = "UNSUPPORTED"
	_, err = llmfactory.CreateLLM(cfg)
	assert.EqualError(t, err, "unsupported provider type: UNSUPPORTED")

	cfg.OpenAI.APIType = "OPENAI"
	cfg.Timeout = "soon"
	_, err = llmfactory.CreateLLM(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout for provider test-provider")
}
