package openai

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llms"
	"github.com/effective-security/x/values"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrMissingToken is returned when no API key is configured.
var ErrMissingToken = errors.New("openai: missing API key")

// LLM is an OpenAI chat completions model,
// it also serves OpenAI-compatible providers such as Perplexity.
type LLM struct {
	Client  openai.Client
	Options *Options
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Provider:   llms.ProviderOpenAI,
		MaxRetries: 2,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Provider == llms.ProviderPerplexity {
		options.Token = values.StringsCoalesce(options.Token, os.Getenv(perplexityTokenEnvVarName))
		options.BaseURL = values.StringsCoalesce(options.BaseURL, PerplexityBaseURL)
		options.Model = values.StringsCoalesce(options.Model, DefaultPerplexityModel)
	} else {
		options.Token = values.StringsCoalesce(options.Token, os.Getenv(tokenEnvVarName))
		options.BaseURL = values.StringsCoalesce(options.BaseURL, os.Getenv(baseURLEnvVarName), DefaultBaseURL)
		options.Model = values.StringsCoalesce(options.Model, os.Getenv(modelEnvVarName), DefaultModel)
		options.Organization = values.StringsCoalesce(options.Organization, os.Getenv(organizationEnvVarName))
	}

	if options.Token == "" {
		return nil, errors.WithMessagef(ErrMissingToken, "provider %s", options.Provider)
	}
	if !strings.HasSuffix(options.BaseURL, "/") {
		options.BaseURL += "/"
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithBaseURL(options.BaseURL),
		option.WithMaxRetries(options.MaxRetries),
	}
	if options.Organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(options.Organization))
	}
	if options.HTTPClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HTTPClient))
	}
	if options.Timeout > 0 {
		sdkOpts = append(sdkOpts, option.WithRequestTimeout(options.Timeout))
	}

	return &LLM{
		Client:  openai.NewClient(sdkOpts...),
		Options: options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return o.Options.Provider
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{Model: o.Options.Model}, options...)

	chatMsgs, err := ToMessages(messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(opts.Model),
		Messages: chatMsgs,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: opts.StopWords,
		}
	}

	result, err := o.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, llms.QueryError(errors.Wrapf(err, "%s: failed to create chat completion", strings.ToLower(string(o.Options.Provider))))
	}
	if len(result.Choices) == 0 {
		return nil, llms.QueryError(errors.WithMessage(llms.ErrEmptyResponse, "openai"))
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: llms.TokenUsage(
				result.Usage.PromptTokens,
				result.Usage.CompletionTokens,
				result.Usage.TotalTokens,
			),
		}
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

// ToMessages converts messages to the chat completion format.
func ToMessages(messages []llms.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	chatMsgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llms.RoleSystem:
			chatMsgs = append(chatMsgs, openai.SystemMessage(m.Content))
		case llms.RoleHuman:
			chatMsgs = append(chatMsgs, openai.UserMessage(m.Content))
		case llms.RoleAI:
			chatMsgs = append(chatMsgs, openai.AssistantMessage(m.Content))
		default:
			return nil, errors.WithMessagef(llms.ErrUnexpectedRole, "openai: role %q", m.Role)
		}
	}
	return chatMsgs, nil
}
