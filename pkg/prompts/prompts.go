// Package prompts renders the instruction blocks sent to the model.
package prompts

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/tools"
)

//go:embed agent.tmpl
var AgentTemplate string

//go:embed summary.tmpl
var SummaryTemplate string

// AgentData is the input of the agent template.
type AgentData struct {
	// Context is the rendered conversation log.
	Context string
	// Tools is the catalog, one "- <name>: <description>" line per tool.
	Tools []string
	Input string
}

// SummaryData is the input of the summary template.
type SummaryData struct {
	Results string
}

// Builder renders the agent and summary prompts.
type Builder struct {
	agent   *template.Template
	summary *template.Template
}

// Option configures the builder.
type Option func(*options)

type options struct {
	agent   string
	summary string
}

// WithAgentTemplate replaces the agent prompt template.
func WithAgentTemplate(text string) Option {
	return func(o *options) {
		o.agent = text
	}
}

// WithSummaryTemplate replaces the summary prompt template.
func WithSummaryTemplate(text string) Option {
	return func(o *options) {
		o.summary = text
	}
}

// NewBuilder returns a builder with the default templates,
// the templates may use sprig functions.
func NewBuilder(opts ...Option) (*Builder, error) {
	o := &options{
		agent:   AgentTemplate,
		summary: SummaryTemplate,
	}
	for _, opt := range opts {
		opt(o)
	}

	agent, err := template.New("agent").Funcs(sprig.TxtFuncMap()).Parse(o.agent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse agent template")
	}
	summary, err := template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(o.summary)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse summary template")
	}
	return &Builder{
		agent:   agent,
		summary: summary,
	}, nil
}

// MustBuilder returns a builder with the default templates, and panics on error.
func MustBuilder(opts ...Option) *Builder {
	b, err := NewBuilder(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Build returns the agent prompt for the user input,
// the conversation context and the tool catalog.
func (b *Builder) Build(input, context string, catalog []tools.Descriptor) (string, error) {
	lines := make([]string, 0, len(catalog))
	for _, d := range catalog {
		lines = append(lines, d.String())
	}
	return execute(b.agent, AgentData{
		Context: context,
		Tools:   lines,
		Input:   input,
	})
}

// Summary returns the prompt asking the model to summarize the tool results.
func (b *Builder) Summary(results string) (string, error) {
	return execute(b.summary, SummaryData{Results: results})
}

func execute(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s prompt", t.Name())
	}
	return strings.TrimSpace(sb.String()), nil
}
