package json_test

import (
	"testing"

	"github.com/effective-security/toolagent/encoding/json"
	"github.com/effective-security/toolagent/toolcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder(t *testing.T) {
	enc := json.NewEncoder()

	req := toolcall.Request{ToolName: "Time Tool", Args: []string{"UTC"}}
	bs, err := enc.Marshal(req)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"ToolName\": \"Time Tool\",\n\t\"Args\": [\n\t\t\"UTC\"\n\t]\n}", string(bs))

	enc.Indent = ""
	bs, err = enc.Marshal(req)
	require.NoError(t, err)
	assert.Equal(t, `{"ToolName":"Time Tool","Args":["UTC"]}`, string(bs))
}

func TestEncoder_Unmarshal(t *testing.T) {
	enc := json.NewEncoder()

	tcases := []struct {
		name  string
		input string
	}{
		{"plain", `{"ToolName": "Weather Tool", "Args": ["Paris"]}`},
		{"fenced", "```json\n{\"ToolName\": \"Weather Tool\", \"Args\": [\"Paris\"]}\n```"},
		{"text before fence", "Here it is:\n```\n{\"ToolName\": \"Weather Tool\", \"Args\": [\"Paris\"]}\n```"},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			var req toolcall.Request
			require.NoError(t, enc.Unmarshal([]byte(tc.input), &req))
			assert.Equal(t, toolcall.Request{ToolName: "Weather Tool", Args: []string{"Paris"}}, req)
			assert.NoError(t, enc.Validate(req))
		})
	}

	var req toolcall.Request
	err := enc.Unmarshal([]byte(`["Weather Tool", "Paris"]`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode JSON")

	assert.Error(t, enc.Validate(toolcall.Request{Args: []string{"Paris"}}))
}
