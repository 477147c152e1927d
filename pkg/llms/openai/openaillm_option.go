package openai

import (
	"net/http"
	"time"

	"github.com/effective-security/toolagent/pkg/llms"
)

const (
	tokenEnvVarName           = "OPENAI_API_KEY"      //nolint:gosec
	modelEnvVarName           = "OPENAI_MODEL"        //nolint:gosec
	baseURLEnvVarName         = "OPENAI_BASE_URL"     //nolint:gosec
	organizationEnvVarName    = "OPENAI_ORGANIZATION" //nolint:gosec
	perplexityTokenEnvVarName = "PERPLEXITY_API_KEY"  //nolint:gosec
)

const (
	// DefaultBaseURL is the OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1/"
	// PerplexityBaseURL is the Perplexity OpenAI-compatible endpoint.
	PerplexityBaseURL = "https://api.perplexity.ai/"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultPerplexityModel is used for Perplexity when no model is configured.
	DefaultPerplexityModel = "sonar"
)

// Options for the OpenAI client.
type Options struct {
	Token        string
	Model        string
	BaseURL      string
	Organization string
	Provider     llms.ProviderType
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxRetries   int
}

// Option is a functional option for the OpenAI client.
type Option func(*Options)

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the OpenAI model to the client. If not set, the model
// is read from the OPENAI_MODEL environment variable.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL passes the OpenAI base url to the client. If not set, the base url
// is read from the OPENAI_BASE_URL environment variable. If still not set in ENV
// VAR OPENAI_BASE_URL, then the default value is https://api.openai.com/v1 is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client. If not set, the
// organization is read from the OPENAI_ORGANIZATION.
func WithOrganization(organization string) Option {
	return func(opts *Options) {
		opts.Organization = organization
	}
}

// WithProvider passes the provider type to the client. If not set, the default value
// is ProviderOpenAI.
func WithProvider(provider llms.ProviderType) Option {
	return func(opts *Options) {
		opts.Provider = provider
	}
}

// WithHTTPClient allows setting a custom HTTP client. If not set, the default value
// is http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithMaxRetries sets the number of retries of the SDK client.
func WithMaxRetries(n int) Option {
	return func(opts *Options) {
		opts.MaxRetries = n
	}
}
