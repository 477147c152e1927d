package main

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/agent"
	"github.com/effective-security/toolagent/config"
	"github.com/effective-security/toolagent/pkg/llmfactory"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/store"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/toolagent/tools/tavily"
	"github.com/effective-security/toolagent/tools/timetool"
	"github.com/effective-security/toolagent/tools/weather"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

// app is the environment shared by the commands.
type app struct {
	opts   *Options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.opts.Config)
}

// buildRegistry returns the registry with the enabled tools, in configuration order.
func buildRegistry(cfg *config.Config) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	for _, name := range cfg.Tools.Enabled {
		switch name {
		case config.ToolTime:
			registry.Register(timetool.New(
				timetool.WithDefaultZone(cfg.Tools.Time.DefaultZone),
			))
		case config.ToolWeather:
			registry.Register(weather.New(
				weather.WithAPIKey(cfg.Tools.Weather.APIKey),
				weather.WithBaseURL(cfg.Tools.Weather.BaseURL),
				weather.WithUnits(cfg.Tools.Weather.Units),
			))
		case config.ToolWebSearch:
			ws := cfg.Tools.WebSearch
			t, err := tavily.New(ws.APIKey)
			if err != nil {
				return nil, errors.WithMessage(err, "failed to create web search tool")
			}
			if ws.BaseURL != "" {
				t = t.WithBaseURL(ws.BaseURL)
			}
			if ws.SearchDepth != "" {
				t = t.WithSearchDepth(ws.SearchDepth)
			}
			registry.Register(t)
		default:
			return nil, errors.Errorf("unsupported tool: %s", name)
		}
	}
	return registry, nil
}

// buildStore returns the conversation log and the function to release it.
func buildStore(ctx context.Context, cfg *config.Config) (store.ConversationLog, func(), error) {
	switch cfg.Store.Type {
	case config.StoreMemory:
		return store.NewMemoryStore(cfg.Agent.MemoryCapacity), func() {}, nil
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "invalid redis URL")
		}
		client := redis.NewClient(opts)
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "failed to connect to redis")
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logger.KV(xlog.WARNING, "status", "redis_close_failed", "err", err.Error())
			}
		}
		return store.NewRedisStore(client, cfg.Store.Prefix, cfg.Agent.MemoryCapacity), closer, nil
	}
	return nil, nil, errors.Errorf("unsupported store type: %s", cfg.Store.Type)
}

// buildModel returns the model configured for the agent.
func buildModel(cfg *config.Config) (llms.Model, error) {
	var preferred []string
	if cfg.Agent.Model != "" {
		preferred = append(preferred, cfg.Agent.Model)
	}
	model, err := llmfactory.New(&cfg.LLM).AgentModel(cfg.Agent.Name, preferred...)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create model")
	}
	return model, nil
}

// buildAgent returns the agent and the function to release its resources.
func buildAgent(ctx context.Context, cfg *config.Config, callback agent.Callback) (*agent.Agent, func(), error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	model, err := buildModel(cfg)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []agent.Option{
		agent.WithName(cfg.Agent.Name),
		agent.WithModel(cfg.Agent.Model),
		agent.WithMaxTokens(cfg.Agent.MaxTokens),
		agent.WithSummaryMaxTokens(cfg.Agent.SummaryMaxTokens),
		agent.WithTemperature(cfg.Agent.GetTemperature()),
		agent.WithStore(log),
	}
	if callback != nil {
		opts = append(opts, agent.WithCallback(callback))
	}

	logger.KV(xlog.INFO,
		"status", "agent_created",
		"agent", cfg.Agent.Name,
		"model", model.GetName(),
		"provider", model.GetProviderType(),
		"tools", registry.Names(),
		"store", cfg.Store.Type,
	)
	return agent.New(model, registry, opts...), closer, nil
}
