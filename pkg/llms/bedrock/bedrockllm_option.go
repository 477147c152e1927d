package bedrock

import "github.com/effective-security/toolagent/pkg/llms/bedrock/internal/bedrockclient"

// InvokeModelAPI is implemented by *bedrockruntime.Client.
type InvokeModelAPI = bedrockclient.InvokeModelAPI

type options struct {
	modelID string
	region  string

	accessKeyID     string
	secretAccessKey string
	sessionToken    string

	client InvokeModelAPI
}

// Option is an option for the Bedrock LLM.
type Option func(*options)

// WithModel sets the model ID, for example "anthropic.claude-3-5-haiku-20241022-v1:0".
func WithModel(modelID string) Option {
	return func(o *options) {
		o.modelID = modelID
	}
}

// WithRegion sets the AWS region used when the client is created from the default config.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithStaticCredentials uses the given keys instead of the default credentials chain.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) Option {
	return func(o *options) {
		o.accessKeyID = accessKeyID
		o.secretAccessKey = secretAccessKey
		o.sessionToken = sessionToken
	}
}

// WithClient allows passing a custom client.
func WithClient(client InvokeModelAPI) Option {
	return func(o *options) {
		o.client = client
	}
}
