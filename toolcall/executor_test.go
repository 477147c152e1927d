package toolcall_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/mocks/mocktools"
	"github.com/effective-security/toolagent/toolcall"
	"github.com/effective-security/toolagent/tools"
	"github.com/effective-security/toolagent/tools/timetool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedClock = timetool.WithClock(func() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
})

type panicTool struct{}

func (panicTool) Name() string        { return "Panic Tool" }
func (panicTool) Description() string { return "always panics" }
func (panicTool) Call(context.Context, []string) (string, error) {
	panic("boom")
}

type recorder struct {
	events []string
}

func (r *recorder) OnToolStart(_ context.Context, tool tools.ITool, _ []string) {
	r.events = append(r.events, "start:"+tool.Name())
}
func (r *recorder) OnToolEnd(_ context.Context, tool tools.ITool, _ []string, _ string) {
	r.events = append(r.events, "end:"+tool.Name())
}
func (r *recorder) OnToolError(_ context.Context, tool tools.ITool, _ []string, _ error) {
	r.events = append(r.events, "error:"+tool.Name())
}
func (r *recorder) OnToolNotFound(_ context.Context, name string, _ []string) {
	r.events = append(r.events, "not_found:"+name)
}

func Test_Execute_NotFound(t *testing.T) {
	e := toolcall.NewExecutor(tools.NewRegistry(timetool.New(fixedClock)))
	out := e.Execute(context.Background(), []toolcall.Request{
		{ToolName: "Weather Tool", Args: []string{"New York"}, Continuation: "ignored"},
	})
	assert.Equal(t, "Error: Tool 'Weather Tool' not found.", out)
}

func Test_Execute_Empty(t *testing.T) {
	e := toolcall.NewExecutor(nil)
	assert.Equal(t, "", e.Execute(context.Background(), nil))
	assert.Empty(t, e.Run(context.Background(), []toolcall.Request{}))
	assert.Equal(t, 0, e.Registry().Len())
}

func Test_Execute_PartialFailure(t *testing.T) {
	rec := &recorder{}
	e := toolcall.NewExecutor(
		tools.NewRegistry(timetool.New(fixedClock), panicTool{}),
		toolcall.WithCallback(rec),
	)
	reqs := toolcall.Parse(`USE_TOOL: Stock Tool | AAPL
USE_TOOL: time tool | America/New_York
THEN: Use this time to check weather
USE_TOOL: Time Tool | Mars/Olympus
THEN: never shown
USE_TOOL: Panic Tool | x
USE_TOOL: TIME TOOL | UTC`)
	require.Len(t, reqs, 5)

	results := e.Run(context.Background(), reqs)
	require.Len(t, results, 5)
	assert.True(t, results[0].NotFound)
	assert.True(t, results[1].Succeeded())
	assert.True(t, errors.Is(results[2].Err, tools.ErrToolExecution))
	assert.True(t, errors.Is(results[3].Err, tools.ErrToolExecution))
	assert.True(t, results[4].Succeeded())

	out := toolcall.FormatResults(results)
	exp := `Error: Tool 'Stock Tool' not found.
The current time is 2024-06-01 08:00:00 EDT-0400.
Next step: Use this time to check weather
Error executing Time Tool: invalid timezone Mars/Olympus: unknown time zone Mars/Olympus
Error executing Panic Tool: panic: boom
The current time is 2024-06-01 12:00:00 UTC+0000.`
	assert.Equal(t, exp, out)

	assert.Equal(t, []string{
		"not_found:Stock Tool",
		"start:Time Tool", "end:Time Tool",
		"start:Time Tool", "error:Time Tool",
		"start:Panic Tool", "error:Panic Tool",
		"start:Time Tool", "end:Time Tool",
	}, rec.events)
}

func Test_Execute_Mock(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	stock := mocktools.NewMockITool(ctrl)
	stock.EXPECT().Name().Return("Stock Tool").AnyTimes()
	gomock.InOrder(
		stock.EXPECT().Call(ctx, []string{"AAPL", "MSFT"}).Return("AAPL 190, MSFT 410", nil),
		stock.EXPECT().Call(ctx, []string{"XXXX"}).Return("", errors.New("unknown symbol")),
	)

	cb := mocktools.NewMockCallback(ctrl)
	cb.EXPECT().OnToolStart(ctx, stock, gomock.Any()).Times(2)
	cb.EXPECT().OnToolEnd(ctx, stock, []string{"AAPL", "MSFT"}, "AAPL 190, MSFT 410")
	cb.EXPECT().OnToolError(ctx, stock, []string{"XXXX"}, gomock.Any())

	e := toolcall.NewExecutor(tools.NewRegistry(stock), toolcall.WithCallback(&mockCallback{MockCallback: cb}))
	out := e.Execute(ctx, []toolcall.Request{
		{ToolName: "stock tool", Args: []string{"AAPL", "MSFT"}, Continuation: "compare prices"},
		{ToolName: "Stock Tool", Args: []string{"XXXX"}},
	})
	assert.Equal(t, "AAPL 190, MSFT 410\nNext step: compare prices\nError executing Stock Tool: unknown symbol", out)
}

type mockCallback struct {
	*mocktools.MockCallback
}

func (m *mockCallback) OnToolNotFound(context.Context, string, []string) {}

func Test_ResultLines(t *testing.T) {
	req := toolcall.Request{ToolName: "Echo", Args: []string{"a"}, Continuation: "next"}
	assert.Equal(t, []string{"ok", "Next step: next"}, toolcall.Result{Request: req, Output: "ok"}.Lines())
	assert.Equal(t, "Error: Tool 'Echo' not found.", toolcall.Result{Request: req, NotFound: true}.String())
	assert.Equal(t, "Error executing Echo: bad", toolcall.Result{Request: req, Err: errors.New("bad")}.String())
	assert.Equal(t, "", toolcall.FormatResults(nil))
}
