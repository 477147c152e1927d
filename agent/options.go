package agent

import (
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/toolagent/pkg/prompts"
	"github.com/effective-security/toolagent/store"
)

const (
	// DefaultName is the agent name used in logs and metrics.
	DefaultName = "toolagent"
	// DefaultMaxTokens is the output budget of the primary query,
	// large enough for multi-tool responses.
	DefaultMaxTokens = 300
	// DefaultSummaryMaxTokens is the output budget of the summary query.
	DefaultSummaryMaxTokens = 150
)

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

// Config is the agent configuration.
type Config struct {
	// Name is the name of the agent.
	Name string

	// Model is the model to use in an LLM call.
	Model    string
	modelSet bool

	// MaxTokens is the maximum number of tokens to generate in the primary query.
	MaxTokens int

	// SummaryMaxTokens is the maximum number of tokens to generate in the summary query.
	SummaryMaxTokens int

	// Temperature is the temperature for sampling to use in an LLM call.
	Temperature    float64
	temperatureSet bool

	// TopP is the cumulative probability for top-p sampling in an LLM call.
	TopP    float64
	toppSet bool

	// StopWords is a list of words to stop on to use in an LLM call.
	StopWords    []string
	stopWordsSet bool

	// Callback is the handler of turn, model and tool events.
	Callback Callback

	// Store is the conversation log, an in-memory log of
	// store.DefaultCapacity entries is used if not set.
	Store store.ConversationLog

	// Prompts renders the agent and summary prompts.
	Prompts *prompts.Builder
}

// NewConfig returns the configuration with defaults applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Name:             DefaultName,
		MaxTokens:        DefaultMaxTokens,
		SummaryMaxTokens: DefaultSummaryMaxTokens,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore(store.DefaultCapacity)
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompts.MustBuilder()
	}
	return cfg
}

// WithName sets the name of the agent.
func WithName(name string) Option {
	return func(o *Config) {
		if name != "" {
			o.Name = name
		}
	}
}

// WithModel is an option for LLM.Call.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
		o.modelSet = model != ""
	}
}

// WithMaxTokens sets the output budget of the primary query.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		if maxTokens > 0 {
			o.MaxTokens = maxTokens
		}
	}
}

// WithSummaryMaxTokens sets the output budget of the summary query.
func WithSummaryMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		if maxTokens > 0 {
			o.SummaryMaxTokens = maxTokens
		}
	}
}

// WithTemperature is an option for LLM.Call.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithTopP	will add an option to use top-p sampling for LLM.Call.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
		o.toppSet = true
	}
}

// WithStopWords is an option for setting the stop words for LLM.Call.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
		o.stopWordsSet = true
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callback Callback) Option {
	return func(o *Config) {
		o.Callback = callback
	}
}

// WithStore sets the conversation log.
func WithStore(log store.ConversationLog) Option {
	return func(o *Config) {
		o.Store = log
	}
}

// WithPrompts sets the prompt builder.
func WithPrompts(builder *prompts.Builder) Option {
	return func(o *Config) {
		o.Prompts = builder
	}
}

// GetCallOptions returns the options of a model call with the given output budget.
func (c *Config) GetCallOptions(maxTokens int) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithMaxTokens(maxTokens),
	}
	if c.modelSet {
		opts = append(opts, llms.WithModel(c.Model))
	}
	if c.temperatureSet {
		opts = append(opts, llms.WithTemperature(c.Temperature))
	}
	if c.toppSet {
		opts = append(opts, llms.WithTopP(c.TopP))
	}
	if c.stopWordsSet {
		opts = append(opts, llms.WithStopWords(c.StopWords))
	}
	return opts
}
