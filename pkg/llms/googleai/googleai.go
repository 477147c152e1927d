package googleai

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/pkg/llms"
	"google.golang.org/genai"
)

var (
	ErrNoContentInResponse = errors.New("no content in generation response")
)

const (
	CITATIONS = "citations"
	SAFETY    = "safety"
)

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the [llms.Model] interface.
func (g *GoogleAI) GenerateContent(
	ctx context.Context,
	messages []llms.Message,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(llms.CallOptions{
		Model:       g.opts.DefaultModel,
		MaxTokens:   g.opts.DefaultMaxTokens,
		Temperature: g.opts.DefaultTemperature,
		TopP:        g.opts.DefaultTopP,
	}, options...)

	callCfg := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		CandidateCount:  1,
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	if opts.Temperature > 0 {
		callCfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.TopP > 0 {
		callCfg.TopP = genai.Ptr(float32(opts.TopP))
	}

	callCfg.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: g.opts.HarmThreshold,
		},
	}

	system, rest := llms.SplitSystem(messages)
	if system != "" {
		callCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	history, err := ConvertMessages(rest)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, history, callCfg)
	if err != nil {
		return nil, llms.QueryError(errors.Wrap(err, "googleai: failed to generate content"))
	}
	if len(resp.Candidates) == 0 {
		return nil, llms.QueryError(ErrNoContentInResponse)
	}
	return convertCandidates(resp.Candidates, resp.UsageMetadata), nil
}

// ConvertMessages converts the conversation to genai content.
func ConvertMessages(messages []llms.Message) ([]*genai.Content, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role
		switch m.Role {
		case llms.RoleHuman:
			role = genai.RoleUser
		case llms.RoleAI:
			role = genai.RoleModel
		default:
			return nil, errors.WithMessagef(llms.ErrUnexpectedRole, "googleai: role %q", m.Role)
		}
		history = append(history, genai.NewContentFromText(m.Content, role))
	}
	return history, nil
}

// convertCandidates converts a sequence of genai.Candidate to a response.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) *llms.ContentResponse {
	var contentResponse llms.ContentResponse

	for _, candidate := range candidates {
		buf := strings.Builder{}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				buf.WriteString(part.Text)
			}
		}

		var metadata map[string]any
		if usage != nil {
			metadata = llms.TokenUsage(
				int64(usage.PromptTokenCount),
				int64(usage.CandidatesTokenCount+usage.ThoughtsTokenCount),
				int64(usage.TotalTokenCount),
			)
		} else {
			metadata = map[string]any{}
		}
		metadata[CITATIONS] = candidate.CitationMetadata
		metadata[SAFETY] = candidate.SafetyRatings

		contentResponse.Choices = append(contentResponse.Choices,
			&llms.ContentChoice{
				Content:        buf.String(),
				StopReason:     string(candidate.FinishReason),
				GenerationInfo: metadata,
			})
	}
	return &contentResponse
}
