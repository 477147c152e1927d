package toolcall_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/effective-security/toolagent/toolcall"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_HasToolMarker(t *testing.T) {
	assert.True(t, toolcall.HasToolMarker("USE_TOOL: Time Tool | UTC"))
	assert.True(t, toolcall.HasToolMarker("\n  USE_TOOL: Time Tool | UTC"))
	assert.True(t, toolcall.HasToolMarker("USE_TOOL:"))
	assert.False(t, toolcall.HasToolMarker(""))
	assert.False(t, toolcall.HasToolMarker("Hello! USE_TOOL: Time Tool | UTC"))
	assert.False(t, toolcall.HasToolMarker("use_tool: Time Tool | UTC"))
	assert.False(t, toolcall.HasToolMarker("THEN: USE_TOOL: Time Tool | UTC"))
}

func Test_Parse(t *testing.T) {
	tcases := []struct {
		name string
		in   string
		exp  []toolcall.Request
	}{
		{
			name: "empty",
			in:   "",
			exp:  []toolcall.Request{},
		},
		{
			name: "whitespace",
			in:   " \n\t\n ",
			exp:  []toolcall.Request{},
		},
		{
			name: "plain answer",
			in:   "The capital of France is Paris.",
			exp:  []toolcall.Request{},
		},
		{
			name: "time and weather",
			in:   "USE_TOOL: Time Tool | America/New_York\nTHEN: Use this time to check weather\nUSE_TOOL: Weather Tool | New York",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"America/New_York"}, Continuation: "Use this time to check weather"},
				{ToolName: "Weather Tool", Args: []string{"New York"}},
			},
		},
		{
			name: "args trimmed",
			in:   "  USE_TOOL:   Stock Tool  |  AAPL ,  MSFT,GOOG  ",
			exp: []toolcall.Request{
				{ToolName: "Stock Tool", Args: []string{"AAPL", "MSFT", "GOOG"}},
			},
		},
		{
			name: "empty args",
			in:   "USE_TOOL: Time Tool |",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{""}},
			},
		},
		{
			name: "split on first separator",
			in:   "USE_TOOL: Echo | a | b, c",
			exp: []toolcall.Request{
				{ToolName: "Echo", Args: []string{"a | b", "c"}},
			},
		},
		{
			name: "then before use_tool is ignored",
			in:   "THEN: nothing to attach\nUSE_TOOL: Time Tool | UTC",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"UTC"}},
			},
		},
		{
			name: "last then wins",
			in:   "USE_TOOL: Time Tool | UTC\nTHEN: first\nTHEN:   second  ",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"UTC"}, Continuation: "second"},
			},
		},
		{
			name: "malformed line ignored",
			in:   "USE_TOOL: Time Tool | UTC\nUSE_TOOL: Weather Tool without separator\nTHEN: attach to time",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"UTC"}, Continuation: "attach to time"},
			},
		},
		{
			name: "only malformed",
			in:   "USE_TOOL: Weather Tool",
			exp:  []toolcall.Request{},
		},
		{
			name: "prose interleaved",
			in:   "Let me check.\nUSE_TOOL: Time Tool | Europe/London\nSome prose\nTHEN: then weather\nmore prose\nUSE_TOOL: Weather Tool | London\nDone.",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"Europe/London"}, Continuation: "then weather"},
				{ToolName: "Weather Tool", Args: []string{"London"}},
			},
		},
		{
			name: "windows line endings",
			in:   "USE_TOOL: Time Tool | UTC\r\nTHEN: next\r\n",
			exp: []toolcall.Request{
				{ToolName: "Time Tool", Args: []string{"UTC"}, Continuation: "next"},
			},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			got := toolcall.Parse(tc.in)
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Parse_Chains(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 50; i++ {
		k := faker.IntRange(1, 8)
		exp := make([]toolcall.Request, 0, k)
		var sb strings.Builder
		for j := 0; j < k; j++ {
			req := toolcall.Request{
				ToolName: fmt.Sprintf("%s Tool", faker.Word()),
			}
			for n := faker.IntRange(1, 3); n > 0; n-- {
				req.Args = append(req.Args, faker.Word())
			}
			if faker.Bool() {
				req.Continuation = words(faker, 4)
			}
			if faker.Bool() {
				sb.WriteString(words(faker, 5))
				sb.WriteString("\n")
			}
			sb.WriteString(req.String())
			sb.WriteString("\n")
			exp = append(exp, req)
		}

		got := toolcall.Parse(sb.String())
		if diff := cmp.Diff(exp, got); diff != "" {
			t.Fatalf("chain of %d mismatch (-want +got):\n%s\ninput:\n%s", k, diff, sb.String())
		}
	}
}

func words(faker *gofakeit.Faker, n int) string {
	list := make([]string, n)
	for i := range list {
		list[i] = faker.Word()
	}
	return strings.Join(list, " ")
}

func Test_RequestString(t *testing.T) {
	r := toolcall.Request{ToolName: "Time Tool", Args: []string{"UTC"}, Continuation: "check weather"}
	assert.True(t, r.HasContinuation())
	assert.Equal(t, "USE_TOOL: Time Tool | UTC\nTHEN: check weather", r.String())

	r2 := toolcall.Request{ToolName: "Stock Tool", Args: []string{"AAPL", "MSFT"}}
	assert.False(t, r2.HasContinuation())
	assert.Equal(t, "USE_TOOL: Stock Tool | AAPL, MSFT", r2.String())

	assert.Equal(t, "USE_TOOL: Time Tool | UTC\nTHEN: check weather\nUSE_TOOL: Stock Tool | AAPL, MSFT",
		toolcall.FormatRequests([]toolcall.Request{r, r2}))
}

func Test_ParseOutput(t *testing.T) {
	assert.Nil(t, toolcall.ParseOutput(""))
	assert.Nil(t, toolcall.ParseOutput("The weather is nice. USE_TOOL: Weather Tool | Paris"))

	exp := []toolcall.Request{{ToolName: "Weather Tool", Args: []string{"Paris"}}}
	assert.Equal(t, exp, toolcall.ParseOutput("USE_TOOL: Weather Tool | Paris"))
	assert.Equal(t, exp, toolcall.ParseOutput("\n  USE_TOOL: Weather Tool | Paris\n"))

	// a fenced example is not a tool response
	assert.Nil(t, toolcall.ParseOutput("```\nUSE_TOOL: Weather Tool | Paris\n```"))
	assert.Nil(t, toolcall.ParseOutput("You can ask me like this:\n```\nUSE_TOOL: Time Tool | UTC\n```"))

	// the marker without the separator is not a call
	assert.Empty(t, toolcall.ParseOutput("USE_TOOL: Weather Tool"))
}
