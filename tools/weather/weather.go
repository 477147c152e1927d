// Package weather provides current weather conditions from the OpenWeatherMap API.
package weather

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent/tools", "weather")

const (
	// ToolName is the name of the weather tool.
	ToolName = "Weather Tool"
	// DefaultBaseURL is the OpenWeatherMap current weather endpoint.
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"

	locationPrefix = "weather in "
	maxBodySize    = 1 << 20
)

// HTTPClient is the subset of http.Client used by the tool.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Tool returns current weather for a location.
type Tool struct {
	apiKey  string
	baseURL string
	units   string
	client  HTTPClient
}

var _ tools.ITool = (*Tool)(nil)

// Option configures the tool.
type Option func(*Tool)

// WithAPIKey sets the OpenWeatherMap API key.
func WithAPIKey(apiKey string) Option {
	return func(t *Tool) {
		t.apiKey = apiKey
	}
}

// WithBaseURL overrides the endpoint.
func WithBaseURL(baseURL string) Option {
	return func(t *Tool) {
		t.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(t *Tool) {
		t.client = client
	}
}

// WithUnits sets the measurement units, metric by default.
func WithUnits(units string) Option {
	return func(t *Tool) {
		t.units = units
	}
}

// New returns the weather tool.
// The API key is read from OPENWEATHERMAP_API_KEY when not provided.
func New(opts ...Option) *Tool {
	t := &Tool{}
	for _, opt := range opts {
		opt(t)
	}
	t.apiKey = values.StringsCoalesce(t.apiKey, os.Getenv("OPENWEATHERMAP_API_KEY"))
	t.baseURL = values.StringsCoalesce(t.baseURL, DefaultBaseURL)
	t.units = values.StringsCoalesce(t.units, "metric")
	if t.client == nil {
		t.client = http.DefaultClient
	}
	return t
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Provides current weather information for a given location"
}

// Location returns the location from the argument,
// any text up to the last "weather in " is removed.
func Location(arg string) string {
	if idx := strings.LastIndex(arg, locationPrefix); idx >= 0 {
		arg = arg[idx+len(locationPrefix):]
	}
	return strings.TrimSpace(arg)
}

// Call returns the current weather for the location in the first argument.
func (t *Tool) Call(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 || Location(args[0]) == "" {
		return "", tools.ExecutionError("location is required")
	}
	location := Location(args[0])

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", t.apiKey)
	q.Set("units", t.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", tools.WrapExecutionError(err, "failed to create request")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", tools.WrapExecutionError(err, "failed to fetch weather data")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", tools.WrapExecutionError(err, "failed to read weather data")
	}

	if resp.StatusCode != http.StatusOK {
		msg := values.StringsCoalesce(gjson.GetBytes(body, "message").String(), "Unknown error occurred")
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", resp.StatusCode,
			"location", location,
			"body", slices.StringUpto(string(body), 256),
		)
		return "", tools.ExecutionError("%s", msg)
	}

	temp := gjson.GetBytes(body, "main.temp")
	description := gjson.GetBytes(body, "weather.0.description")
	if !temp.Exists() || !description.Exists() {
		return "", tools.ExecutionError("unexpected weather data format")
	}

	return "The weather in " + location + " is currently " + description.String() +
		" with a temperature of " + strconv.FormatFloat(temp.Float(), 'f', -1, 64) + "°C.", nil
}
