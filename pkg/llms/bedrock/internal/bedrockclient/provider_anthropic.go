package bedrockclient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llms"
)

// Ref: https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-anthropic-claude-messages.html

// anthropicTextGenerationInputContent is a single content block in the input.
type anthropicTextGenerationInputContent struct {
	// The type of the content. Always "text".
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicTextGenerationInputMessage struct {
	// The role of the message. Required
	// One of: ["user", "assistant"]
	// For system prompt, use the system field in the input
	Role    string                                `json:"role"`
	Content []anthropicTextGenerationInputContent `json:"content"`
}

// anthropicTextGenerationInput is the input to the model.
type anthropicTextGenerationInput struct {
	// The version of the model to use. Required
	AnthropicVersion string `json:"anthropic_version"`
	// The maximum number of tokens to generate per result. Required
	MaxTokens int `json:"max_tokens"`
	// The system prompt to use. Optional
	System   string                                 `json:"system,omitempty"`
	Messages []*anthropicTextGenerationInputMessage `json:"messages"`
	// The amount of randomness injected into the response. Optional, default = 1
	Temperature float64 `json:"temperature,omitempty"`
	// The probability mass from which tokens are sampled. Optional, default = 1
	TopP          float64  `json:"top_p,omitempty"`
	StopSequences []string `json:"stop_sequences,omitempty"`
}

type anthropicTextGenerationOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// anthropicTextGenerationOutput is the generated output.
type anthropicTextGenerationOutput struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	// Conversational role of the generated message.
	// This will always be "assistant".
	Role    string                                 `json:"role"`
	Content []anthropicTextGenerationOutputContent `json:"content"`
	// One of: ["end_turn", "max_tokens", "stop_sequence"]
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence"`
	Usage        struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

const (
	AnthropicLatestVersion    = "bedrock-2023-05-31"
	AnthropicDefaultMaxTokens = 2048
)

// Role attribute for the anthropic message.
const (
	AnthropicRoleUser      = "user"
	AnthropicRoleAssistant = "assistant"
)

// AnthropicMessageTypeText is the only content type exchanged with the model.
const AnthropicMessageTypeText = "text"

func createAnthropicCompletion(ctx context.Context,
	client InvokeModelAPI,
	modelID string,
	messages []Message,
	options llms.CallOptions,
) (*llms.ContentResponse, error) {
	inputContents, systemPrompt, err := processInputMessagesAnthropic(messages)
	if err != nil {
		return nil, err
	}

	input := anthropicTextGenerationInput{
		AnthropicVersion: AnthropicLatestVersion,
		MaxTokens:        getMaxTokens(options.MaxTokens, AnthropicDefaultMaxTokens),
		System:           systemPrompt,
		Messages:         inputContents,
		Temperature:      options.Temperature,
		TopP:             options.TopP,
		StopSequences:    options.StopWords,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	modelInput := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("*/*"),
		ContentType: aws.String("application/json"),
		Body:        body,
	}
	resp, err := client.InvokeModel(ctx, modelInput)
	if err != nil {
		return nil, errors.Wrapf(err, "bedrock: failed to invoke %s", modelID)
	}

	var output anthropicTextGenerationOutput
	if err = json.Unmarshal(resp.Body, &output); err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to decode response")
	}

	if len(output.Content) == 0 {
		return nil, errors.WithMessage(llms.ErrEmptyResponse, "bedrock")
	}

	var text strings.Builder
	for _, c := range output.Content {
		if c.Type == AnthropicMessageTypeText {
			text.WriteString(c.Text)
		}
	}

	choice := &llms.ContentChoice{
		Content:    text.String(),
		StopReason: output.StopReason,
		GenerationInfo: llms.TokenUsage(
			output.Usage.InputTokens,
			output.Usage.OutputTokens,
			output.Usage.InputTokens+output.Usage.OutputTokens,
		),
	}
	if output.ID != "" {
		choice.GenerationInfo["ID"] = output.ID
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{choice},
	}, nil
}

// processInputMessagesAnthropic extracts the system prompt and merges
// consecutive messages of the same role.
func processInputMessagesAnthropic(messages []Message) ([]*anthropicTextGenerationInputMessage, string, error) {
	var system []string
	inputMessages := make([]*anthropicTextGenerationInputMessage, 0, len(messages))
	for _, message := range messages {
		var role string
		switch message.Role {
		case llms.RoleSystem:
			system = append(system, message.Content)
			continue
		case llms.RoleHuman:
			role = AnthropicRoleUser
		case llms.RoleAI:
			role = AnthropicRoleAssistant
		default:
			return nil, "", errors.WithMessagef(llms.ErrUnexpectedRole, "bedrock: role %q", message.Role)
		}

		content := anthropicTextGenerationInputContent{
			Type: AnthropicMessageTypeText,
			Text: message.Content,
		}
		if n := len(inputMessages); n > 0 && inputMessages[n-1].Role == role {
			inputMessages[n-1].Content = append(inputMessages[n-1].Content, content)
			continue
		}
		inputMessages = append(inputMessages, &anthropicTextGenerationInputMessage{
			Role:    role,
			Content: []anthropicTextGenerationInputContent{content},
		})
	}
	if len(inputMessages) == 0 {
		return nil, "", errors.New("bedrock: no messages")
	}
	return inputMessages, strings.Join(system, "\n"), nil
}
