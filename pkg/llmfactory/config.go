package llmfactory

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
)

type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" toml:"providers"`
	// DefaultProvider specifies the default provider to use
	DefaultProvider string `json:"default_provider" yaml:"default_provider" toml:"default_provider"`
	// AgentModels specifies the mapping of agents to models.
	// key is the agent name, value is the list of preferred model names.
	// Use `default: <model_name>` as the default model for agents.
	AgentModels map[string][]string `json:"agent_models,omitempty" yaml:"agent_models,omitempty" toml:"agent_models,omitempty"`
}

// ProviderConfig for a model provider
type ProviderConfig struct {
	Name            string   `json:"name" yaml:"name" toml:"name"`
	Token           string   `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
	DefaultModel    string   `json:"default_model,omitempty" yaml:"default_model,omitempty" toml:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty" toml:"available_models,omitempty"`
	// Timeout is the request timeout, for example "30s"
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`

	OpenAI OpenAIConfig `json:"open_ai" yaml:"open_ai" toml:"open_ai"`
	Cloud  CloudConfig  `json:"cloud" yaml:"cloud" toml:"cloud"`
}

// OpenAIConfig specifies the API options
type OpenAIConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	// APIType specifies the type of API to use:
	// OPENAI|ANTHROPIC|GOOGLEAI|BEDROCK|PERPLEXITY
	APIType string `json:"api_type,omitempty" yaml:"api_type,omitempty" toml:"api_type,omitempty"`
	// OrgID specifies which organization's quota and billing should be used when making API requests.
	OrgID string `json:"org_id,omitempty" yaml:"org_id,omitempty" toml:"org_id,omitempty"`
}

// CloudConfig specifies the options for cloud hosted providers
type CloudConfig struct {
	// Region is the AWS region for Bedrock
	Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	// Project and Location select the Vertex AI backend for Google AI
	Project  string `json:"project,omitempty" yaml:"project,omitempty" toml:"project,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
	// CredentialsFile is a Google service account file
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty" toml:"credentials_file,omitempty"`
}

func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// RequestTimeout returns the parsed Timeout, or zero if not set.
func (c *ProviderConfig) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout for provider %s", c.Name)
	}
	return d, nil
}

// LoadConfig from file,
// .toml files are decoded with environment expansion,
// other formats are loaded by configloader.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	if strings.EqualFold(filepath.Ext(file), ".toml") {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err = toml.Decode(os.ExpandEnv(string(b)), cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", file)
		}
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
