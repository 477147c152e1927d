// Package config provides the application configuration.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llmfactory"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultAgentName        = "toolagent"
	DefaultMemoryCapacity   = 10
	DefaultMaxTokens        = 300
	DefaultSummaryMaxTokens = 150
	DefaultTemperature      = 0.7
	DefaultStoreType        = StoreMemory
	DefaultStorePrefix      = "toolagent"
)

// Store types
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Tool names used in the Enabled list
const (
	ToolTime      = "time"
	ToolWeather   = "weather"
	ToolWebSearch = "web_search"
)

// Config is the application configuration
type Config struct {
	Agent Agent             `json:"agent" yaml:"agent"`
	Store Store             `json:"store" yaml:"store"`
	Tools Tools             `json:"tools" yaml:"tools"`
	LLM   llmfactory.Config `json:"llm" yaml:"llm"`
}

// Agent specifies the orchestrator settings
type Agent struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	// Model is the preferred model name, the default model of the
	// default provider is used when empty
	Model            string `json:"model,omitempty" yaml:"model,omitempty"`
	MemoryCapacity   int    `json:"memory_capacity" yaml:"memory_capacity" validate:"gte=1"`
	MaxTokens        int    `json:"max_tokens" yaml:"max_tokens" validate:"gte=1"`
	SummaryMaxTokens int    `json:"summary_max_tokens" yaml:"summary_max_tokens" validate:"gte=1"`
	// Temperature is the sampling temperature, DefaultTemperature when not set
	Temperature *float64 `json:"temperature" yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// GetTemperature returns the sampling temperature
func (a *Agent) GetTemperature() float64 {
	if a.Temperature == nil {
		return DefaultTemperature
	}
	return *a.Temperature
}

// Store specifies the conversation log
type Store struct {
	Type     string `json:"type" yaml:"type" validate:"oneof=memory redis"`
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" validate:"required_if=Type redis"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Tools specifies the registered tools
type Tools struct {
	Enabled   []string  `json:"enabled" yaml:"enabled" validate:"dive,oneof=time weather web_search"`
	Time      TimeTool  `json:"time" yaml:"time"`
	Weather   Weather   `json:"weather" yaml:"weather"`
	WebSearch WebSearch `json:"web_search" yaml:"web_search"`
}

// TimeTool settings
type TimeTool struct {
	// DefaultZone is used when no timezone argument is given,
	// local time when empty
	DefaultZone string `json:"default_zone,omitempty" yaml:"default_zone,omitempty"`
}

// Weather tool settings
type Weather struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Units   string `json:"units,omitempty" yaml:"units,omitempty" validate:"omitempty,oneof=metric imperial standard"`
}

// WebSearch tool settings
type WebSearch struct {
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	SearchDepth string `json:"search_depth,omitempty" yaml:"search_depth,omitempty" validate:"omitempty,oneof=basic advanced"`
}

// Default returns the configuration with defaults
// and the time and weather tools enabled.
func Default() *Config {
	cfg := &Config{
		Tools: Tools{
			Enabled: []string{ToolTime, ToolWeather},
		},
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults populates the missing values
func (c *Config) SetDefaults() {
	c.Agent.Name = values.StringsCoalesce(c.Agent.Name, DefaultAgentName)
	c.Agent.MemoryCapacity = values.NumbersCoalesce(c.Agent.MemoryCapacity, DefaultMemoryCapacity)
	c.Agent.MaxTokens = values.NumbersCoalesce(c.Agent.MaxTokens, DefaultMaxTokens)
	c.Agent.SummaryMaxTokens = values.NumbersCoalesce(c.Agent.SummaryMaxTokens, DefaultSummaryMaxTokens)
	if c.Agent.Temperature == nil {
		temperature := DefaultTemperature
		c.Agent.Temperature = &temperature
	}
	c.Store.Type = values.StringsCoalesce(c.Store.Type, DefaultStoreType)
	c.Store.Prefix = values.StringsCoalesce(c.Store.Prefix, DefaultStorePrefix)
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// YAML returns the configuration as YAML
func (c *Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// Load returns the configuration from file,
// the defaults are returned when file is empty.
func Load(file string) (*Config, error) {
	if file == "" {
		return Default(), nil
	}

	cfg := new(Config)
	if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load configuration from %s", file)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
