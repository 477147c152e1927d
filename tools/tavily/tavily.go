package tavily

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/values"
)

// ToolName is the name of the web search tool.
const ToolName = "Web Search"

// SearchResult represents the structure for a search response
type SearchResult struct {
	Results []tavilyModels.SearchResult `json:"results" yaml:"Results"`
	Answer  string                      `json:"answer,omitempty" yaml:"Answer"`
}

// Tool is a tool that provides a web search functionality
type Tool struct {
	apiKey     string
	baseURL    string
	depth      string
	httpClient *http.Client
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool)(nil)

// New returns the web search tool.
// The API key is read from TAVILY_API_KEY when not provided.
func New(apiKey string) (*Tool, error) {
	apiKey = values.StringsCoalesce(apiKey, os.Getenv("TAVILY_API_KEY"))
	if apiKey == "" {
		return nil, tools.ExecutionError("TAVILY_API_KEY is not set")
	}
	return &Tool{
		apiKey:     apiKey,
		depth:      "basic",
		httpClient: http.DefaultClient,
	}, nil
}

// WithBaseURL overrides the search endpoint.
func (t *Tool) WithBaseURL(baseURL string) *Tool {
	t.baseURL = baseURL
	return t
}

// WithHTTPClient sets the HTTP client.
func (t *Tool) WithHTTPClient(client *http.Client) *Tool {
	t.httpClient = client
	return t
}

// WithSearchDepth sets the search depth: basic or advanced.
func (t *Tool) WithSearchDepth(depth string) *Tool {
	t.depth = values.StringsCoalesce(depth, "basic")
	return t
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Searches the web and returns a short answer with sources for the given query"
}

// Search performs the web search.
func (t *Tool) Search(_ context.Context, query string) (*SearchResult, error) {
	if query == "" {
		return nil, tools.ExecutionError("invalid request: empty query")
	}

	client := tavilygo.NewClient(t.apiKey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	searchResp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   t.depth,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, tools.WrapExecutionError(err, "failed to perform search")
	}

	return &SearchResult{
		Results: searchResp.Results,
		Answer:  searchResp.Answer,
	}, nil
}

// Call joins the positional arguments into the search query.
func (t *Tool) Call(ctx context.Context, args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, ", "))
	res, err := t.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.String()), nil
}

func (r *SearchResult) String() string {
	var buf bytes.Buffer
	if r.Answer != "" {
		fmt.Fprintf(&buf, "ANSWER: %s\n", r.Answer)
	}

	for _, result := range r.Results {
		fmt.Fprintf(&buf, "- URL: %s\n", result.URL)
		fmt.Fprintf(&buf, "  TITLE: %s\n", result.Title)
		fmt.Fprintf(&buf, "  SCORE: %f\n", result.Score)
		fmt.Fprintf(&buf, "  CONTENT: %s\n", result.Content)
	}

	return buf.String()
}
