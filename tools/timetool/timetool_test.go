package timetool_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/toolagent/tools/timetool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tool(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 30, 15, 0, time.UTC)
	tool := timetool.New(
		timetool.WithClock(func() time.Time { return fixed }),
		timetool.WithDefaultZone("UTC"),
	)

	assert.Equal(t, timetool.ToolName, tool.Name())
	assert.Contains(t, tool.Description(), "Europe/London")

	ctx := context.Background()

	tcases := []struct {
		args []string
		exp  string
	}{
		{args: nil, exp: "The current time is 2024-06-01 12:30:15 UTC+0000."},
		{args: []string{""}, exp: "The current time is 2024-06-01 12:30:15 UTC+0000."},
		{args: []string{"Europe/London"}, exp: "The current time is 2024-06-01 13:30:15 BST+0100."},
		{args: []string{" America/New_York ", "ignored"}, exp: "The current time is 2024-06-01 08:30:15 EDT-0400."},
	}
	for _, tc := range tcases {
		out, err := tool.Call(ctx, tc.args)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, out)
	}

	_, err := tool.Call(ctx, []string{"Mars/Olympus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrToolExecution))
	assert.Contains(t, err.Error(), "invalid timezone Mars/Olympus")
}

func Test_DefaultZone(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tool := timetool.New(
		timetool.WithClock(func() time.Time { return fixed }),
		timetool.WithDefaultZone("Asia/Tokyo"),
	)
	out, err := tool.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "The current time is 2024-01-15 09:00:00 JST+0900.", out)
}

func Test_LocalZone(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tool := timetool.New(timetool.WithClock(func() time.Time { return fixed }))
	out, err := tool.Call(context.Background(), []string{"  "})
	require.NoError(t, err)
	assert.Equal(t, "The current time is "+fixed.In(time.Local).Format(timetool.Layout)+".", out)
}
