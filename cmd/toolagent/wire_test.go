package main

import (
	"context"
	"testing"

	"github.com/effective-security/toolagent/config"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildRegistry(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")

	cfg := config.Default()
	r, err := buildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Time Tool", "Weather Tool"}, r.Names())

	cfg.Tools.Enabled = []string{config.ToolWebSearch}
	_, err = buildRegistry(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create web search tool")

	cfg.Tools.WebSearch.APIKey = "test-key"
	cfg.Tools.WebSearch.SearchDepth = "advanced"
	cfg.Tools.WebSearch.BaseURL = "http://localhost:1234"
	r, err = buildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	cfg.Tools.Enabled = []string{"calculator"}
	_, err = buildRegistry(cfg)
	assert.EqualError(t, err, "unsupported tool: calculator")
}

func Test_buildStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Agent.MemoryCapacity = 7

	log, closer, err := buildStore(ctx, cfg)
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, 7, log.Capacity())

	cfg.Store.Type = config.StoreRedis
	cfg.Store.RedisURL = "http://not-redis"
	_, _, err = buildStore(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")

	cfg.Store.Type = "sqlite"
	_, _, err = buildStore(ctx, cfg)
	assert.EqualError(t, err, "unsupported store type: sqlite")
}

func Test_buildModel(t *testing.T) {
	useFakeModel(t)

	cfg, err := config.Load(testConfig)
	require.NoError(t, err)

	model, err := buildModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, "fake", model.GetName())

	a, closer, err := buildAgent(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, "test-agent", a.Name())
	assert.Equal(t, 4, a.Store().Capacity())
	assert.Equal(t, 1, a.Registry().Len())

	// zero temperature from the file is sent to the model
	opts := llms.NewCallOptions(llms.CallOptions{Temperature: 1}, a.Config().GetCallOptions(10)...)
	assert.Equal(t, 0.0, opts.Temperature)
}
